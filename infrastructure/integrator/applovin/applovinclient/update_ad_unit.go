package applovinclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// UpdateAdUnit replaces the bid floors of one ad unit. The payload carries the
// full current ad unit object with only the bid_floors field swapped, which is
// what the management API expects for partial updates.
func (c *AppLovinClient) UpdateAdUnit(ctx context.Context, unit domain.AdUnit, bidFloors []domain.CountryGroup) error {
	endpoint := fmt.Sprintf("%s/ad_unit/%s", c.Cfg.AppLovin.BaseURL, unit.ID)

	payload := unit
	payload.BidFloors = bidFloors

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	c.headers(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("ad_unit_id", unit.ID).Error("ad unit update request failed")
		return err
	}
	defer resp.Body.Close()

	if _, err := readResponse(resp); err != nil {
		logrus.WithError(err).WithField("ad_unit_id", unit.ID).Error("ad unit update rejected")
		return err
	}

	return nil
}

package applovinclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// ListAdUnits fetches every ad unit of the account. Fields is the optional
// list of expansions ("bid_floors", "ad_network_settings", ...).
func (c *AppLovinClient) ListAdUnits(ctx context.Context, fields []string) ([]domain.AdUnit, error) {
	endpoint := fmt.Sprintf("%s/ad_units", c.Cfg.AppLovin.BaseURL)

	if len(fields) > 0 {
		params := url.Values{}
		params.Set("fields", strings.Join(fields, ","))
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.headers(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("ad unit listing request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	var units []domain.AdUnit
	if err := json.Unmarshal(body, &units); err != nil {
		logrus.WithError(err).Error("could not decode ad unit listing")
		return nil, err
	}

	return units, nil
}

// readResponse drains the body and converts non-2xx statuses into StatusError.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

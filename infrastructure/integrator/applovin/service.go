package applovin

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin/applovinclient"
	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// listFields are the ad unit expansions the engine needs to reconcile floors.
var listFields = []string{"ad_network_settings", "frequency_capping_settings", "bid_floors"}

// Integrator is the ad network capability consumed by the flooring usecase.
type Integrator interface {
	// ListAdUnits returns all ad units with their live bid floors.
	ListAdUnits(ctx context.Context) ([]domain.AdUnit, error)

	// UpdateBidFloors replaces the bid floor list of one ad unit.
	UpdateBidFloors(ctx context.Context, unit domain.AdUnit, bidFloors []domain.CountryGroup) error
}

type AppLovinIntegrator struct {
	cfg    *config.Config
	Client applovinclient.Client
}

func New(cfg *config.Config, client applovinclient.Client) *AppLovinIntegrator {
	return &AppLovinIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *AppLovinIntegrator) ListAdUnits(ctx context.Context) ([]domain.AdUnit, error) {
	units, err := s.Client.ListAdUnits(ctx, listFields)
	if err != nil {
		logrus.WithError(err).Error("floors: failed to list ad units from management API")
		return nil, err
	}

	logrus.WithField("ad_units", len(units)).Debug("floors: fetched ad units")
	return units, nil
}

func (s *AppLovinIntegrator) UpdateBidFloors(ctx context.Context, unit domain.AdUnit, bidFloors []domain.CountryGroup) error {
	if err := s.Client.UpdateAdUnit(ctx, unit, bidFloors); err != nil {
		logrus.WithFields(logrus.Fields{
			"ad_unit_id":   unit.ID,
			"ad_unit_name": unit.Name,
		}).WithError(err).Error("floors: failed to update ad unit")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"ad_unit_id": unit.ID,
		"groups":     len(bidFloors),
	}).Info("floors: ad unit bid floors updated")
	return nil
}

package applovinclient

import (
	"context"
	"net/http"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// Client is the AppLovin management API surface the engine consumes.
type Client interface {
	ListAdUnits(ctx context.Context, fields []string) ([]domain.AdUnit, error)
	UpdateAdUnit(ctx context.Context, unit domain.AdUnit, bidFloors []domain.CountryGroup) error
}

// AppLovinClient talks to the mediation management API, authenticated with the
// caller-scoped API key.
type AppLovinClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &AppLovinClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: cfg.AppLovin.RequestTimeout},
	}
}

func (c *AppLovinClient) headers(req *http.Request) {
	req.Header.Set("Api-Key", c.Cfg.AppLovin.APIKey)
	req.Header.Set("Accept", "application/json")
}

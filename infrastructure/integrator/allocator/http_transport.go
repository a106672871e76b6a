package allocator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// HTTPTransport registers a model synchronously with a PUT to the allocator
// service URI.
type HTTPTransport struct {
	URI        string
	HTTPClient *http.Client
}

func NewHTTPTransport(cfg *config.Config) *HTTPTransport {
	return &HTTPTransport{
		URI:        cfg.Allocator.URI,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *HTTPTransport) Register(ctx context.Context, registration domain.AllocatorRegistration) error {
	payload, err := json.Marshal(registration)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.URI, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("allocator registration request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"endpoint": registration.EndpointName,
		}).Error("allocator rejected registration")
		return fmt.Errorf("allocator returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	logrus.WithFields(logrus.Fields{
		"reference": registration.Reference,
		"endpoint":  registration.EndpointName,
		"model":     registration.ModelName,
	}).Info("allocator registration accepted")
	return nil
}

package allocator

import (
	"context"
	"fmt"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// Transport delivers an allocator registration. The two variants (synchronous
// HTTP PUT, asynchronous Lambda trigger) are functionally equivalent and
// chosen by configuration; callers never know which one is in use.
type Transport interface {
	Register(ctx context.Context, registration domain.AllocatorRegistration) error
}

// NewFromConfig builds the transport the deployment selected.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Transport, error) {
	switch cfg.Allocator.Transport {
	case config.AllocatorTransportHTTP:
		return NewHTTPTransport(cfg), nil
	case config.AllocatorTransportLambda:
		return NewLambdaTransport(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown allocator transport %q", cfg.Allocator.Transport)
	}
}

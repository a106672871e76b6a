package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndpointName(t *testing.T) {
	assert.Equal(t, "bid-floor-1-2-0", EndpointName("1.2.0"))
	assert.Equal(t, "bid-floor-2", EndpointName("2"))
}

func TestEmptyArtifactName(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 30, 15, 0, time.UTC)
	assert.Equal(t, "empty_model_20260829T073015.tar.gz", EmptyArtifactName(now))
}

func TestNewAllocatorRegistration(t *testing.T) {
	artifact := ModelArtifact{
		Name:    "empty_model_20260829T073015.tar.gz",
		Version: "1.2.0",
		State:   ArtifactUploaded,
	}

	registration := NewAllocatorRegistration(artifact)

	assert.Equal(t, AllocatorReference, registration.Reference)
	assert.Equal(t, "bid-floor-1-2-0", registration.EndpointName)
	assert.Equal(t, artifact.Name, registration.ModelName)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// ArtifactState is the lifecycle position of a model artifact.
type ArtifactState string

const (
	ArtifactCreated    ArtifactState = "CREATED"
	ArtifactUploaded   ArtifactState = "UPLOADED"
	ArtifactRegistered ArtifactState = "REGISTERED"
)

// AllocatorReference is the fixed reference key every bid floor model is
// registered under.
const AllocatorReference = "default_bid_floor"

const artifactTimestampLayout = "20060102T150405"

// ModelArtifact is a versioned model bundle. Names are timestamp-derived so
// re-running creation never overwrites an uploaded object.
type ModelArtifact struct {
	Name      string        `json:"name"`
	LocalPath string        `json:"-"`
	Bucket    string        `json:"bucket,omitempty"`
	Key       string        `json:"key,omitempty"`
	Version   string        `json:"model_version"`
	State     ArtifactState `json:"state"`
}

// EmptyArtifactName derives the cold-start artifact name for a creation time.
func EmptyArtifactName(now time.Time) string {
	return fmt.Sprintf("empty_model_%s.tar.gz", now.UTC().Format(artifactTimestampLayout))
}

// EndpointName derives the allocator endpoint for a model version:
// dots become dashes, prefixed with "bid-floor-" (1.2.0 -> bid-floor-1-2-0).
func EndpointName(version string) string {
	return "bid-floor-" + strings.ReplaceAll(version, ".", "-")
}

// AllocatorRegistration is the tuple transmitted to the allocator service.
// It is never persisted by this engine.
type AllocatorRegistration struct {
	Reference    string `json:"reference"`
	EndpointName string `json:"endpointName"`
	ModelName    string `json:"modelName"`
}

// NewAllocatorRegistration builds the registration payload for an uploaded
// artifact.
func NewAllocatorRegistration(artifact ModelArtifact) AllocatorRegistration {
	return AllocatorRegistration{
		Reference:    AllocatorReference,
		EndpointName: EndpointName(artifact.Version),
		ModelName:    artifact.Name,
	}
}

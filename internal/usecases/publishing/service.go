package publishing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/allocator"
	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/log"
)

// ArtifactStore is the upload capability the publisher needs. Implemented by
// s3store.Store; UploadFile must only make the object visible under its final
// key once it is fully written.
type ArtifactStore interface {
	Bucket() string
	UploadFile(ctx context.Context, localPath, key string) error
}

// Service drives the model artifact lifecycle: create locally, upload, then
// optionally register the uploaded model with the allocator.
type Service struct {
	cfg       *config.Config
	store     ArtifactStore
	allocator allocator.Transport
}

func NewService(cfg *config.Config, store ArtifactStore, transport allocator.Transport) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		allocator: transport,
	}
}

// PublishEmpty builds the cold-start artifact for version and uploads it.
// When register is true the uploaded model is also registered with the
// allocator; a registration failure leaves the upload intact and is returned
// as ErrAllocatorRegistration so callers can tell the two stages apart.
// The local bundle is removed whatever the outcome.
func (s *Service) PublishEmpty(ctx context.Context, version string, register bool) (domain.ModelArtifact, error) {
	dir, err := os.MkdirTemp("", "model-artifact-")
	if err != nil {
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, "", err.Error())
	}
	defer os.RemoveAll(dir)

	artifact, err := buildEmptyArtifact(dir, version, time.Now())
	if err != nil {
		return domain.ModelArtifact{}, err
	}

	return s.publish(ctx, artifact, register)
}

// PublishFile uploads a pre-built model bundle from localPath. The file is
// not removed; the caller owns it.
func (s *Service) PublishFile(ctx context.Context, localPath, version string, register bool) (domain.ModelArtifact, error) {
	if _, err := os.Stat(localPath); err != nil {
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, localPath, err.Error())
	}

	artifact := domain.ModelArtifact{
		Name:      filepath.Base(localPath),
		LocalPath: localPath,
		Version:   version,
		State:     domain.ArtifactCreated,
	}

	return s.publish(ctx, artifact, register)
}

func (s *Service) publish(ctx context.Context, artifact domain.ModelArtifact, register bool) (domain.ModelArtifact, error) {
	ctx, runID := log.WithRunID(ctx)
	logger := log.ForContext(ctx).WithField("run_id", runID)

	logger.WithFields(logrus.Fields{
		"artifact": artifact.Name,
		"version":  artifact.Version,
	}).Info("publish: model artifact ready")

	artifact.Bucket = s.store.Bucket()
	artifact.Key = fmt.Sprintf("%s/%s/%s",
		s.cfg.Publish.ArtifactPrefix, domain.EndpointName(artifact.Version), artifact.Name)

	if err := s.store.UploadFile(ctx, artifact.LocalPath, artifact.Key); err != nil {
		return artifact, NewPublishError(ErrArtifactUpload, artifact.Name, err.Error())
	}
	artifact.State = domain.ArtifactUploaded
	logger.WithFields(logrus.Fields{
		"bucket": artifact.Bucket,
		"key":    artifact.Key,
	}).Info("publish: model artifact uploaded")

	if !register {
		logger.Info("publish: allocator registration not requested, stopping after upload")
		return artifact, nil
	}

	registration := domain.NewAllocatorRegistration(artifact)
	if err := s.allocator.Register(ctx, registration); err != nil {
		logger.WithError(err).Error("publish: allocator registration failed, upload kept")
		return artifact, NewPublishError(ErrAllocatorRegistration, artifact.Name, err.Error())
	}
	artifact.State = domain.ArtifactRegistered
	logger.WithFields(logrus.Fields{
		"reference": registration.Reference,
		"endpoint":  registration.EndpointName,
	}).Info("publish: model registered with allocator")

	return artifact, nil
}

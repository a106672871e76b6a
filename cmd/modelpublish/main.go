package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/allocator"
	"github.com/meticalabs/smart-floors-external/infrastructure/storage/s3store"
	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/internal/usecases/publishing"
	"github.com/meticalabs/smart-floors-external/pkg/log"
)

func main() {
	emptyModel := flag.Bool("empty-model", false, "create and publish a cold-start empty model bundle")
	artifactPath := flag.String("artifact", "", "path to a pre-built model bundle to publish")
	version := flag.String("model-version", "", "model version to publish, e.g. 1.2.0")
	updateAllocator := flag.Bool("update-allocator", false, "register the uploaded model with the allocator")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	if *version == "" {
		logrus.Fatal("missing required flag: -model-version")
	}
	if *emptyModel == (*artifactPath != "") {
		logrus.Fatal("exactly one of -empty-model or -artifact must be given")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := s3store.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialise object store")
	}

	var transport allocator.Transport
	if *updateAllocator {
		if err := cfg.RequireAllocator(); err != nil {
			logrus.Fatal(err)
		}
		transport, err = allocator.NewFromConfig(ctx, cfg)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialise allocator transport")
		}
	}

	service := publishing.NewService(cfg, store, transport)

	var artifact domain.ModelArtifact
	if *emptyModel {
		artifact, err = service.PublishEmpty(ctx, *version, *updateAllocator)
	} else {
		artifact, err = service.PublishFile(ctx, *artifactPath, *version, *updateAllocator)
	}
	if err != nil {
		// A failed registration leaves a valid uploaded artifact behind;
		// operators re-run registration without re-uploading.
		if errors.Is(err, publishing.ErrAllocatorRegistration) {
			logrus.WithError(err).WithFields(logrus.Fields{
				"artifact": artifact.Name,
				"key":      artifact.Key,
			}).Error("model uploaded but allocator registration failed")
			return
		}

		logrus.WithError(err).Error("model publish failed")
		os.Exit(1)
	}

	logrus.WithFields(logrus.Fields{
		"artifact": artifact.Name,
		"bucket":   artifact.Bucket,
		"key":      artifact.Key,
		"state":    artifact.State,
	}).Info("model publish completed")
}

package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin"
	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin/applovinclient"
	"github.com/meticalabs/smart-floors-external/infrastructure/storage/s3store"
	"github.com/meticalabs/smart-floors-external/internal/api"
	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/scheduler"
	"github.com/meticalabs/smart-floors-external/internal/usecases/flooring"
	"github.com/meticalabs/smart-floors-external/pkg/log"
)

func main() {
	serve := flag.Bool("serve", false, "run the admin server and cron scheduler instead of a single sync")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := s3store.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialise object store")
	}

	integrator := applovin.New(cfg, applovinclient.NewClient(cfg))
	floorService := flooring.NewService(cfg, store, integrator)

	if *serve {
		runServer(ctx, cfg, floorService)
		return
	}

	report, err := floorService.Sync(ctx)
	if err != nil {
		logrus.WithError(err).WithField("run_id", report.RunID).Error("floor synchronisation failed")
		os.Exit(1)
	}

	if report.AuditError != "" {
		logrus.WithField("audit_error", report.AuditError).Warn("audit document was not written")
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"updated": len(report.Succeeded()),
		"results": len(report.Results),
	}).Info("floor synchronisation completed")
}

func runServer(ctx context.Context, cfg *config.Config, floorService *flooring.Service) {
	floorSyncService := scheduler.NewFloorSyncService(floorService, cfg)
	if err := floorSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start floor sync scheduler")
	} else {
		logrus.Info("floor sync scheduler started")
	}

	server, err := api.New(cfg, floorSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

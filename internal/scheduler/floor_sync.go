package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/usecases/flooring"
)

// FloorSyncConfig holds the scheduling knobs of the floor synchronisation job.
type FloorSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// FloorSyncService schedules and runs the bid floor synchronisation. One run
// at a time: a trigger while a run is in flight is ignored.
type FloorSyncService struct {
	scheduler           *gocron.Scheduler
	config              FloorSyncConfig
	floorService        *flooring.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewFloorSyncService(floorService *flooring.Service, appConfig *config.Config) *FloorSyncService {
	syncConfig := FloorSyncConfig{
		CronSchedule: appConfig.FloorSync.CronSchedule,
		SyncEnabled:  appConfig.FloorSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.UTC)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("floor sync scheduler configuration loaded")

	return &FloorSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		floorService: floorService,
		syncRunning:  false,
	}
}

// Start schedules the job and keeps it running until the context is
// cancelled.
func (s *FloorSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("floor synchronisation disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting floor sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule floor synchronisation: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping floor sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *FloorSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("floor synchronisation already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	report, err := s.floorService.Sync(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	if err != nil {
		s.lastSyncError = err.Error()
	} else {
		s.lastSyncError = ""
	}
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("floor synchronisation run failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"updated": len(report.Succeeded()),
		"results": len(report.Results),
	}).Info("floor synchronisation run completed")
}

// TriggerManualSync starts one run outside the schedule, unless one is
// already in flight.
func (s *FloorSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("floor synchronisation already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("starting manual floor synchronisation")
	go s.runSync(context.Background())
}

// GetStatus reports the current scheduler state. Safe to call while a run is
// in flight.
func (s *FloorSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}

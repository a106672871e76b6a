package flooring

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin"
	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/log"
	"github.com/meticalabs/smart-floors-external/pkg/utils"
)

// Service runs one full floor synchronisation: read the latest percentile
// snapshot, compile the desired configuration, reconcile against the live ad
// units, push the minimal change set and publish the audit trail.
type Service struct {
	cfg        *config.Config
	store      ObjectStore
	integrator applovin.Integrator
	reader     *SnapshotReader
	compiler   *Compiler
	updater    *Updater
}

func NewService(cfg *config.Config, store ObjectStore, integrator applovin.Integrator) *Service {
	return &Service{
		cfg:        cfg,
		store:      store,
		integrator: integrator,
		reader:     NewSnapshotReader(store),
		compiler:   NewCompiler(cfg.FloorSync.TargetPercentile),
		updater:    NewUpdater(integrator, cfg.FloorSync.MaxAttempts, cfg.FloorSync.MaxConcurrentUpdates),
	}
}

// Sync executes one run. The snapshot is read before any network call, so a
// missing or malformed snapshot aborts with zero mutations. Any failed ad
// unit update makes the run fail after every entry has settled; a failed
// audit write is recorded on the report but does not fail the run.
func (s *Service) Sync(ctx context.Context) (domain.UpdateReport, error) {
	ctx, _ = log.WithRunID(ctx)
	logger := log.ForContext(ctx)
	logger.Info("floors: sync run starting")
	fs := s.cfg.FloorSync

	snapshot, err := s.reader.Latest(ctx, fs.CustomerID, fs.AppID, fs.Platform, fs.AdType)
	if err != nil {
		return domain.UpdateReport{RunID: log.RunID(ctx)}, err
	}

	groups, err := s.compile(snapshot)
	if err != nil {
		return domain.UpdateReport{RunID: log.RunID(ctx)}, err
	}

	units, err := s.integrator.ListAdUnits(ctx)
	if err != nil {
		return domain.UpdateReport{RunID: log.RunID(ctx)}, err
	}

	managed := domain.FilterManagedAdUnits(units, fs.PackageName, fs.AdType)
	logger.WithFields(logrus.Fields{
		"ad_units":         len(units),
		"managed_ad_units": len(managed),
		"groups":           len(groups),
	}).Info("floors: run scoped")

	desired := make([]domain.AdUnitConfiguration, 0, len(managed))
	for _, unit := range managed {
		desired = append(desired, domain.AdUnitConfiguration{
			AdUnitID:   unit.ID,
			AdUnitName: unit.Name,
			BidFloors:  groups,
		})
	}

	changes := Reconcile(desired, units)
	if changes.Empty() && len(changes.Skipped) == 0 {
		logger.Info("floors: live configuration already matches, nothing to update")
	}

	report := s.updater.Apply(ctx, changes)

	audit := NewAuditPublisher(s.store, fs.CustomerID, fs.AppID)
	for i, entry := range changes.Entries {
		audit.Record(entry, report.Results[i])
	}
	if err := audit.Publish(ctx); err != nil {
		// the floors are already live, a lost audit trail is a visibility
		// problem and must not fail the run
		logger.WithError(err).Error("floors: failed to write audit document")
		report.AuditError = err.Error()
	}

	if failed := report.Failed(); len(failed) > 0 {
		logger.WithField("failed", len(failed)).Error("floors: run finished with failed updates")
		return report, NewFloorError(ErrUpdatesFailed, "", "")
	}

	logger.WithFields(logrus.Fields{
		"updated": len(report.Succeeded()),
		"skipped": len(changes.Skipped),
	}).Info("floors: run finished")
	return report, nil
}

// compile selects the configured partition strategy and compiles the groups.
// Value grouping merges countries whose target-percentile floors are equal
// after scaling and rounding.
func (s *Service) compile(snapshot *domain.PercentileSnapshot) ([]domain.CountryGroup, error) {
	fs := s.cfg.FloorSync

	var partition domain.GroupPartition
	switch fs.Grouping {
	case config.GroupingValue:
		cpmByCountry := map[string]string{}
		for _, row := range snapshot.Rows {
			value, ok := row.Percentiles[fs.TargetPercentile]
			if !ok {
				continue
			}
			cpm := value * CPMMultiplier
			if cpm > MaxCPM {
				cpm = MaxCPM
			}
			cpmByCountry[row.Country] = utils.FormatCPM(cpm)
		}
		partition = domain.ValueBasedPartition(cpmByCountry)
	default:
		partition = domain.DefaultTierPartition()
	}

	return s.compiler.Compile(snapshot, partition)
}

package flooring

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin"
	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin/applovinclient"
	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/log"
)

const retryBaseDelay = 500 * time.Millisecond

// Updater pushes change set entries to the ad network with bounded
// concurrency. Each entry is retried on transient failures and settles
// independently, so one failed ad unit never rolls back or blocks another.
type Updater struct {
	integrator    applovin.Integrator
	maxAttempts   int
	maxConcurrent int
}

func NewUpdater(integrator applovin.Integrator, maxAttempts, maxConcurrent int) *Updater {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Updater{
		integrator:    integrator,
		maxAttempts:   maxAttempts,
		maxConcurrent: maxConcurrent,
	}
}

// Apply executes every entry of the change set and returns one result per
// entry plus one skipped result per unknown ad unit. Results keep the change
// set order regardless of completion order.
func (u *Updater) Apply(ctx context.Context, changes domain.ChangeSet) domain.UpdateReport {
	report := domain.UpdateReport{
		RunID:     log.RunID(ctx),
		StartedAt: time.Now().UTC(),
		Results:   make([]domain.UpdateResult, len(changes.Entries), len(changes.Entries)+len(changes.Skipped)),
	}

	sem := make(chan struct{}, u.maxConcurrent)
	var wg sync.WaitGroup

	for i, entry := range changes.Entries {
		wg.Add(1)
		go func(i int, entry domain.ChangeEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report.Results[i] = u.applyOne(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	for _, id := range changes.Skipped {
		report.Results = append(report.Results, domain.UpdateResult{
			AdUnitID: id,
			Status:   domain.UpdateStatusSkipped,
		})
	}

	report.FinishedAt = time.Now().UTC()
	return report
}

func (u *Updater) applyOne(ctx context.Context, entry domain.ChangeEntry) domain.UpdateResult {
	logger := log.ForContext(ctx).WithFields(logrus.Fields{
		"ad_unit_id":   entry.Config.AdUnitID,
		"ad_unit_name": entry.Config.AdUnitName,
	})

	result := domain.UpdateResult{
		AdUnitID:   entry.Config.AdUnitID,
		AdUnitName: entry.Config.AdUnitName,
	}

	var lastErr error
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		result.Attempts = attempt

		lastErr = u.integrator.UpdateBidFloors(ctx, entry.Unit, entry.Config.BidFloors)
		if lastErr == nil {
			result.Status = domain.UpdateStatusSuccess
			logger.WithField("attempts", attempt).Info("floors: ad unit updated")
			return result
		}

		if !applovinclient.IsTransient(lastErr) {
			logger.WithError(lastErr).Error("floors: permanent update failure")
			lastErr = NewFloorError(ErrPermanentUpdate, entry.Config.AdUnitID, lastErr.Error())
			break
		}

		if attempt < u.maxAttempts {
			delay := retryBaseDelay << (attempt - 1)
			logger.WithError(lastErr).WithField("retry_in", delay.String()).Warn("floors: transient update failure, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = u.maxAttempts
			}
		}
	}

	result.Status = domain.UpdateStatusFailed
	result.Error = lastErr.Error()
	return result
}

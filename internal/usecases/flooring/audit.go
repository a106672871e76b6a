package flooring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/log"
)

const auditKeyPattern = "bid-floor-optimisation/applovin/uploads/%d/%d/ad_unit_configurations.json"

// AuditPublisher accumulates one audit entry per attempted ad unit and writes
// the whole document to the app's well-known audit key at the end of a run,
// overwriting the previous run's document.
type AuditPublisher struct {
	store      ObjectStore
	customerID int
	appID      int
	entries    []domain.AuditEntry
}

func NewAuditPublisher(store ObjectStore, customerID, appID int) *AuditPublisher {
	return &AuditPublisher{
		store:      store,
		customerID: customerID,
		appID:      appID,
		entries:    make([]domain.AuditEntry, 0),
	}
}

// Record adds the audit entry for one attempted update. Skipped units are not
// recorded here: nothing was sent for them.
func (p *AuditPublisher) Record(entry domain.ChangeEntry, result domain.UpdateResult) {
	p.entries = append(p.entries, domain.AuditEntry{
		AdUnitID:   entry.Config.AdUnitID,
		AdUnitName: entry.Config.AdUnitName,
		Status:     result.Status,
		BidFloors:  entry.Config.BidFloors,
		Prior:      entry.Prior,
		Error:      result.Error,
	})
}

// Publish writes the accumulated document. The audit write happens after the
// updates regardless of their outcome, so the trail reflects exactly what was
// attempted.
func (p *AuditPublisher) Publish(ctx context.Context) error {
	document := domain.AuditDocument{
		RunID:      log.RunID(ctx),
		CustomerID: p.customerID,
		AppID:      p.appID,
		WrittenAt:  time.Now().UTC(),
		Entries:    p.entries,
	}

	body, err := json.Marshal(document)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(auditKeyPattern, p.customerID, p.appID)
	if err := p.store.Put(ctx, key, body, "application/json"); err != nil {
		return err
	}

	log.ForContext(ctx).WithField("key", key).Info("floors: audit document written")
	return nil
}

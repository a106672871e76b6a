package domain

import "time"

// ChangeEntry pairs a compiled configuration that differs from the live state
// with the prior live value, kept for audit. Unit is the full live ad unit the
// update payload is built from; it never leaves the process.
type ChangeEntry struct {
	Config AdUnitConfiguration `json:"config"`
	Prior  []CountryGroup      `json:"prior,omitempty"`
	Unit   AdUnit              `json:"-"`
}

// ChangeSet is the minimal set of updates one run has to apply. Skipped holds
// the ad unit IDs the compiled set references but the network does not know;
// those are reported, never fatal.
type ChangeSet struct {
	Entries []ChangeEntry `json:"entries"`
	Skipped []string      `json:"skipped,omitempty"`
}

// Empty reports whether the live state already matches the compiled one.
func (c ChangeSet) Empty() bool {
	return len(c.Entries) == 0
}

// UpdateStatus is the terminal state of one ad unit update attempt.
type UpdateStatus string

const (
	UpdateStatusSuccess UpdateStatus = "success"
	UpdateStatusFailed  UpdateStatus = "failed"
	UpdateStatusSkipped UpdateStatus = "skipped"
)

// UpdateResult records the outcome of the update attempt for one ad unit.
type UpdateResult struct {
	AdUnitID   string       `json:"ad_unit_id"`
	AdUnitName string       `json:"ad_unit_name"`
	Status     UpdateStatus `json:"status"`
	Attempts   int          `json:"attempts,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// UpdateReport is the final per-run accounting: every attempted or skipped
// ad unit appears exactly once. AuditError carries a failed audit write; the
// floors were still applied, so it never fails the run on its own.
type UpdateReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []UpdateResult `json:"results"`
	AuditError string         `json:"audit_error,omitempty"`
}

// Failed returns the results that did not succeed.
func (r UpdateReport) Failed() []UpdateResult {
	failed := make([]UpdateResult, 0)
	for _, result := range r.Results {
		if result.Status == UpdateStatusFailed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Succeeded returns the results that were applied to the network.
func (r UpdateReport) Succeeded() []UpdateResult {
	ok := make([]UpdateResult, 0)
	for _, result := range r.Results {
		if result.Status == UpdateStatusSuccess {
			ok = append(ok, result)
		}
	}
	return ok
}

// AuditEntry describes exactly what was sent (or attempted) for one ad unit.
type AuditEntry struct {
	AdUnitID   string         `json:"ad_unit_id"`
	AdUnitName string         `json:"ad_unit_name"`
	Status     UpdateStatus   `json:"status"`
	BidFloors  []CountryGroup `json:"bid_floors"`
	Prior      []CountryGroup `json:"prior,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// AuditDocument is the object written to the well-known audit key after every
// run, overwriting the previous one.
type AuditDocument struct {
	RunID      string       `json:"run_id"`
	CustomerID int          `json:"customer_id"`
	AppID      int          `json:"app_id"`
	WrittenAt  time.Time    `json:"written_at"`
	Entries    []AuditEntry `json:"entries"`
}

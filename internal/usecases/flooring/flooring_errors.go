package flooring

import (
	"errors"
	"fmt"
)

// Error kinds of the bid floor configuration engine. Fatal errors abort the
// run before any network mutation; per-entry errors accumulate into the final
// report.
var (
	// Fatal: no snapshot exists for the requested key. The run must not
	// fall back to an empty configuration.
	ErrSnapshotNotFound = errors.New("no percentile snapshot found")

	// Fatal: the snapshot object does not parse into a per-country
	// percentile mapping.
	ErrMalformedSnapshot = errors.New("malformed percentile snapshot")

	// Per-entry: the compiled set references an ad unit the network does
	// not know. The entry is skipped, the run continues.
	ErrUnknownAdUnit = errors.New("ad unit unknown to the ad network")

	// Per-entry: the network rejected the update with a permanent error.
	ErrPermanentUpdate = errors.New("ad unit update rejected")

	// Run-level: at least one entry failed; successful updates are not
	// rolled back.
	ErrUpdatesFailed = errors.New("one or more ad unit updates failed")

	// The percentile selected for the run does not exist in the snapshot.
	ErrPercentileUnavailable = errors.New("target percentile not present in snapshot")
)

// FloorError carries the key that triggered a fatal error so the caller can
// surface it without parsing messages.
type FloorError struct {
	Err     error
	Key     string // object key, ad unit id or snapshot key
	Details string
}

func (e *FloorError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Err.Error(), e.Key, e.Details)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Key)
}

func (e *FloorError) Unwrap() error {
	return e.Err
}

func NewFloorError(err error, key string, details string) *FloorError {
	return &FloorError{Err: err, Key: key, Details: details}
}

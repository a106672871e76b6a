package flooring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/utils"
)

// percentilePrefix is the fixed location of percentile snapshots in the
// artifacts bucket.
const percentilePrefix = "bid-floor-optimisation/applovin/percentile"

// SnapshotReader locates and loads the most recent percentile snapshot for a
// (customer, app, platform, ad type) tuple.
type SnapshotReader struct {
	store ObjectStore
}

func NewSnapshotReader(store ObjectStore) *SnapshotReader {
	return &SnapshotReader{store: store}
}

// Latest selects the snapshot with the greatest date under the key prefix and
// parses it. Zero candidates is ErrSnapshotNotFound, a fatal condition: no
// configuration may ever be compiled from a missing snapshot.
func (r *SnapshotReader) Latest(ctx context.Context, customerID, appID int, platform, adType string) (*domain.PercentileSnapshot, error) {
	prefix := fmt.Sprintf("%s/%d/%d/", percentilePrefix, customerID, appID)
	suffix := fmt.Sprintf("/%s/%s.json", platform, adType)

	keys, err := r.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	latestKey := ""
	latestDate := ""
	for _, key := range keys {
		if !strings.HasSuffix(key, suffix) {
			continue
		}

		date := dateSegment(key, prefix)
		if date == "" {
			continue
		}
		if _, err := utils.ParseDate(date); err != nil {
			logrus.WithField("key", key).Warn("snapshot key carries an invalid date segment, skipping")
			continue
		}

		// ISO dates compare correctly as strings.
		if date > latestDate {
			latestDate = date
			latestKey = key
		}
	}

	if latestKey == "" {
		return nil, NewFloorError(ErrSnapshotNotFound, prefix+"*"+suffix, "")
	}

	body, err := r.store.Get(ctx, latestKey)
	if err != nil {
		return nil, err
	}

	var rows []domain.PercentileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, NewFloorError(ErrMalformedSnapshot, latestKey, err.Error())
	}
	if len(rows) == 0 {
		return nil, NewFloorError(ErrMalformedSnapshot, latestKey, "snapshot has no country rows")
	}
	for _, row := range rows {
		if row.Country == "" || len(row.Percentiles) == 0 {
			return nil, NewFloorError(ErrMalformedSnapshot, latestKey, "row without country or percentile values")
		}
	}

	logrus.WithFields(logrus.Fields{
		"key":       latestKey,
		"date":      latestDate,
		"countries": len(rows),
	}).Info("floors: percentile snapshot selected")

	return &domain.PercentileSnapshot{
		Key: domain.SnapshotKey{
			CustomerID: customerID,
			AppID:      appID,
			Platform:   platform,
			AdType:     adType,
			Date:       latestDate,
		},
		Rows: rows,
	}, nil
}

// dateSegment extracts the <date> path element of
// <prefix><date>/<platform>/<adType>.json.
func dateSegment(key, prefix string) string {
	rest := strings.TrimPrefix(key, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

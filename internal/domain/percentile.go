package domain

import (
	"encoding/json"
	"strings"
)

// SnapshotKey identifies one percentile snapshot in the object store.
type SnapshotKey struct {
	CustomerID int
	AppID      int
	Platform   string
	AdType     string
	Date       string // ISO date (YYYY-MM-DD)
}

// PercentileRow holds the observed bid value distribution for a single country.
// Percentile columns are dynamic (p10..p90 today), so they are kept as a map
// keyed by the column name.
type PercentileRow struct {
	Country     string
	Percentiles map[string]float64
}

const countryColumn = "user.country"

// UnmarshalJSON parses a snapshot row of the form
// {"user.country": "us", "p10": 0.5, ..., "p90": 1.3}.
func (r *PercentileRow) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	row := PercentileRow{Percentiles: map[string]float64{}}
	for name, value := range raw {
		if name == countryColumn {
			if country, ok := value.(string); ok {
				row.Country = strings.ToLower(country)
			}
			continue
		}

		if number, ok := value.(float64); ok {
			row.Percentiles[name] = number
		}
	}

	*r = row
	return nil
}

// MarshalJSON renders the row back in the stored snapshot format.
func (r PercentileRow) MarshalJSON() ([]byte, error) {
	raw := map[string]any{countryColumn: r.Country}
	for name, value := range r.Percentiles {
		raw[name] = value
	}
	return json.Marshal(raw)
}

// PercentileSnapshot is the immutable statistical input for one sync run,
// selected as the most recent snapshot for its key.
type PercentileSnapshot struct {
	Key  SnapshotKey
	Rows []PercentileRow
}

// Percentile returns the value of the named percentile for a country, if the
// snapshot observed that country at all.
func (s *PercentileSnapshot) Percentile(country, name string) (float64, bool) {
	country = strings.ToLower(country)
	for _, row := range s.Rows {
		if row.Country == country {
			value, ok := row.Percentiles[name]
			return value, ok
		}
	}
	return 0, false
}

// Countries lists the countries observed by the snapshot.
func (s *PercentileSnapshot) Countries() []string {
	countries := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		countries = append(countries, row.Country)
	}
	return countries
}

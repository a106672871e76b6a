package flooring

import (
	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// Reconcile diffs the desired configurations against the live ad unit state
// and keeps only the units whose country groups actually changed. Desired
// units the network does not know are collected as skipped, never fatal.
func Reconcile(desired []domain.AdUnitConfiguration, live []domain.AdUnit) domain.ChangeSet {
	liveByID := make(map[string]domain.AdUnit, len(live))
	for _, unit := range live {
		liveByID[unit.ID] = unit
	}

	changes := domain.ChangeSet{
		Entries: make([]domain.ChangeEntry, 0, len(desired)),
	}

	for _, config := range desired {
		unit, ok := liveByID[config.AdUnitID]
		if !ok {
			logrus.WithFields(logrus.Fields{
				"ad_unit_id":   config.AdUnitID,
				"ad_unit_name": config.AdUnitName,
			}).WithError(NewFloorError(ErrUnknownAdUnit, config.AdUnitID, "")).
				Warn("floors: ad unit unknown to the network, skipping")
			changes.Skipped = append(changes.Skipped, config.AdUnitID)
			continue
		}

		if domain.CountryGroupsEqual(unit.BidFloors, config.BidFloors) {
			continue
		}

		changes.Entries = append(changes.Entries, domain.ChangeEntry{
			Config: config,
			Prior:  unit.BidFloors,
			Unit:   unit,
		})
	}

	return changes
}

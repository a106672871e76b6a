package flooring

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/domain"
	"github.com/meticalabs/smart-floors-external/pkg/utils"
)

const (
	// CPMMultiplier converts snapshot bid values into CPM terms.
	CPMMultiplier = 1000

	// MaxCPM caps compiled floors so a degenerate snapshot can never push an
	// absurd floor to the network.
	MaxCPM = 500
)

// Compiler turns a percentile snapshot plus a country partition into the
// canonical country group list for an ad unit.
type Compiler struct {
	targetPercentile string
}

func NewCompiler(targetPercentile string) *Compiler {
	return &Compiler{targetPercentile: targetPercentile}
}

// Compile resolves one floor per group: the maximum target-percentile value
// across the group's member countries, scaled to CPM, capped and rounded to
// two decimals. Groups with no snapshot data for any member, or whose members
// all lack the target percentile, are omitted with a warning. Only a
// partition that compiles to nothing at all is an error, so a degenerate
// snapshot can never push an empty floor list to every ad unit. The same
// snapshot and partition always compile to the same ordered output.
func (c *Compiler) Compile(snapshot *domain.PercentileSnapshot, partition domain.GroupPartition) ([]domain.CountryGroup, error) {
	claimed := map[string]bool{}
	groups := make([]domain.CountryGroup, 0, len(partition))

	for _, def := range partition {
		countries := effectiveCountries(def, snapshot, claimed)
		if len(countries) == 0 {
			logrus.WithFields(logrus.Fields{
				"group":      def.Name,
				"percentile": c.targetPercentile,
			}).Warn("floors: group has no member with snapshot data, omitting")
			continue
		}

		floor, ok := c.groupFloor(snapshot, countries)
		if !ok {
			logrus.WithError(NewFloorError(ErrPercentileUnavailable, def.Name, "")).
				WithField("percentile", c.targetPercentile).
				Warn("floors: no member of group carries the target percentile, omitting")
			continue
		}

		groups = append(groups, domain.CountryGroup{
			Name: def.Name,
			CPM:  utils.FormatCPM(floor),
			Countries: domain.CountryRule{
				Type:   def.Rule,
				Values: countries,
			},
		})
	}

	if len(groups) == 0 {
		return nil, NewFloorError(ErrPercentileUnavailable, "", "no group compiled at percentile "+c.targetPercentile)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})

	return groups, nil
}

// effectiveCountries resolves a group's member list against the snapshot:
// members with no snapshot row are dropped, and a country already claimed by
// an earlier group stays with that group. Output is lowercase and sorted.
func effectiveCountries(def domain.GroupDefinition, snapshot *domain.PercentileSnapshot, claimed map[string]bool) []string {
	countries := make([]string, 0, len(def.Countries))
	for _, country := range def.Countries {
		country = strings.ToLower(country)
		if claimed[country] {
			continue
		}

		if def.Rule == domain.CountryRuleInclude && !snapshotHasCountry(snapshot, country) {
			continue
		}

		claimed[country] = true
		countries = append(countries, country)
	}

	sort.Strings(countries)
	return countries
}

func snapshotHasCountry(snapshot *domain.PercentileSnapshot, country string) bool {
	for _, row := range snapshot.Rows {
		if row.Country == country {
			return true
		}
	}
	return false
}

// groupFloor is the max target-percentile value across members, scaled and
// capped.
func (c *Compiler) groupFloor(snapshot *domain.PercentileSnapshot, countries []string) (float64, bool) {
	found := false
	max := 0.0
	for _, country := range countries {
		value, ok := snapshot.Percentile(country, c.targetPercentile)
		if !ok {
			continue
		}
		found = true
		if value > max {
			max = value
		}
	}
	if !found {
		return 0, false
	}

	cpm := max * CPMMultiplier
	if cpm > MaxCPM {
		cpm = MaxCPM
	}
	return utils.RoundWithTwoDecimalPlace(cpm), true
}

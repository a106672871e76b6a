package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GroupDefinition describes one country group of a partition before any floor
// value is attached to it.
type GroupDefinition struct {
	Name      string          `json:"name"`
	Rule      CountryRuleType `json:"rule"`
	Countries []string        `json:"countries"`
}

// GroupPartition is an ordered set of group definitions. Order matters:
// when groups overlap, the first group to claim a country wins and later
// groups lose that country from their effective coverage.
type GroupPartition []GroupDefinition

// DefaultTierPartition is the stock geo-tier grouping applied when a customer
// does not supply their own partition.
func DefaultTierPartition() GroupPartition {
	return GroupPartition{
		{Name: "tier1", Rule: CountryRuleInclude, Countries: []string{"au", "ca", "de", "gb", "us"}},
		{Name: "tier2", Rule: CountryRuleInclude, Countries: []string{"es", "fr", "it", "jp", "kr", "nl"}},
		{Name: "tier3", Rule: CountryRuleInclude, Countries: []string{"br", "in", "id", "mx", "tr"}},
	}
}

// ValueBasedPartition groups countries that share the same floor value at the
// given percentile into one group each, mirroring how the network deduplicates
// identical floors. Values are pre-formatted CPM strings keyed by country.
func ValueBasedPartition(cpmByCountry map[string]string) GroupPartition {
	countriesByCPM := map[string][]string{}
	for country, cpm := range cpmByCountry {
		countriesByCPM[cpm] = append(countriesByCPM[cpm], strings.ToLower(country))
	}

	cpms := make([]string, 0, len(countriesByCPM))
	for cpm := range countriesByCPM {
		cpms = append(cpms, cpm)
	}
	// numeric order, so group_1 is always the lowest floor even past 10.00
	sort.Slice(cpms, func(i, j int) bool {
		a, _ := strconv.ParseFloat(cpms[i], 64)
		b, _ := strconv.ParseFloat(cpms[j], 64)
		if a != b {
			return a < b
		}
		return cpms[i] < cpms[j]
	})

	partition := make(GroupPartition, 0, len(cpms))
	for i, cpm := range cpms {
		countries := countriesByCPM[cpm]
		sort.Strings(countries)
		partition = append(partition, GroupDefinition{
			Name:      fmt.Sprintf("group_%d", i+1),
			Rule:      CountryRuleInclude,
			Countries: countries,
		})
	}

	return partition
}

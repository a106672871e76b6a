package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// CountryRuleType defines whether a country set is an inclusion or an
// exclusion list.
type CountryRuleType string

const (
	CountryRuleInclude CountryRuleType = "INCLUDE"
	CountryRuleExclude CountryRuleType = "EXCLUDE"
)

// CountryRule is the coverage rule of a country group: a rule type plus the
// set of country codes it applies to (lowercase ISO codes).
type CountryRule struct {
	Type   CountryRuleType `json:"type"`
	Values []string        `json:"values"`
}

// Equal compares rule type and country set, order-sensitive on values since
// compiled rules are always emitted sorted.
func (r CountryRule) Equal(other CountryRule) bool {
	if r.Type != other.Type || len(r.Values) != len(other.Values) {
		return false
	}
	for i := range r.Values {
		if !strings.EqualFold(r.Values[i], other.Values[i]) {
			return false
		}
	}
	return true
}

// CountryGroup is a named partition of countries sharing a single bid floor.
// CPM is kept as a fixed two-decimal string, which is both the wire format of
// the management API and what makes structural comparison exact.
type CountryGroup struct {
	Name      string      `json:"country_group_name"`
	CPM       string      `json:"cpm"`
	Countries CountryRule `json:"countries"`
}

// Equal is structural equality: value and coverage rule.
func (g CountryGroup) Equal(other CountryGroup) bool {
	return g.Name == other.Name && g.CPM == other.CPM && g.Countries.Equal(other.Countries)
}

// CountryGroupsEqual compares two ordered country group sequences.
func CountryGroupsEqual(a, b []CountryGroup) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// AdUnit is an inventory slot as reported by the ad network. ID is the stable
// key; Name is display only.
type AdUnit struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	PackageName string         `json:"package_name"`
	AdFormat    string         `json:"ad_format"`
	Disabled    bool           `json:"disabled,omitempty"`
	BidFloors   []CountryGroup `json:"bid_floors,omitempty"`
}

// AdUnitConfiguration is the unit of comparison and update: one ad unit's
// full ordered country group list. The engine always replaces the list
// wholesale, never mutates it in place.
type AdUnitConfiguration struct {
	AdUnitID   string         `json:"ad_unit_id"`
	AdUnitName string         `json:"ad_unit_name"`
	BidFloors  []CountryGroup `json:"bid_floors"`
}

// managedMarker tags the ad units this engine owns. Units carrying the
// control suffix are excluded from automated floor updates.
const (
	managedMarker = "metica"
	controlSuffix = "_1"
)

var numericSuffix = regexp.MustCompile(`_(\d+)$`)

// NameSuffix extracts the trailing numeric suffix of a managed ad unit name
// ("metica_android_inter_ad_unit_10" -> 10). Units without one sort first.
func (u AdUnit) NameSuffix() int {
	match := numericSuffix.FindStringSubmatch(u.Name)
	if match == nil {
		return 0
	}
	n, _ := strconv.Atoi(match[1])
	return n
}

// FilterManagedAdUnits selects the ad units the engine is allowed to update:
// same package, managed marker in the name, matching ad format and not the
// control unit. The result is ordered by numeric name suffix so runs are
// deterministic.
func FilterManagedAdUnits(units []AdUnit, packageName, adType string) []AdUnit {
	managed := make([]AdUnit, 0, len(units))
	for _, unit := range units {
		if unit.PackageName != packageName {
			continue
		}
		if !strings.Contains(strings.ToLower(unit.Name), managedMarker) {
			continue
		}
		if !strings.EqualFold(unit.AdFormat, adType) {
			continue
		}
		if strings.HasSuffix(unit.Name, controlSuffix) {
			continue
		}
		managed = append(managed, unit)
	}

	sort.SliceStable(managed, func(i, j int) bool {
		return managed[i].NameSuffix() < managed[j].NameSuffix()
	})

	return managed
}

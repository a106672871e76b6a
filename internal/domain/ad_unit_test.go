package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterManagedAdUnits(t *testing.T) {
	units := []AdUnit{
		{ID: "u4", Name: "metica_android_reward_ad_unit_4", PackageName: "com.game.app", AdFormat: "REWARD"},
		{ID: "u2", Name: "metica_android_reward_ad_unit_2", PackageName: "com.game.app", AdFormat: "REWARD"},
		{ID: "u1", Name: "metica_android_reward_ad_unit_1", PackageName: "com.game.app", AdFormat: "REWARD"},
		{ID: "u9", Name: "metica_android_inter_ad_unit_2", PackageName: "com.game.app", AdFormat: "INTER"},
		{ID: "u8", Name: "legacy_reward_unit", PackageName: "com.game.app", AdFormat: "REWARD"},
		{ID: "u7", Name: "metica_android_reward_ad_unit_3", PackageName: "com.other.app", AdFormat: "REWARD"},
	}

	managed := FilterManagedAdUnits(units, "com.game.app", "reward")

	// control unit (_1), wrong format, wrong package and unmanaged names are
	// all out; the rest is ordered by numeric suffix
	assert.Len(t, managed, 2)
	assert.Equal(t, "u2", managed[0].ID)
	assert.Equal(t, "u4", managed[1].ID)
}

func TestFilterManagedAdUnitsEmpty(t *testing.T) {
	managed := FilterManagedAdUnits(nil, "com.game.app", "reward")
	assert.Empty(t, managed)
}

func TestNameSuffix(t *testing.T) {
	tests := []struct {
		name     string
		unitName string
		expected int
	}{
		{"plain suffix", "metica_android_reward_ad_unit_12", 12},
		{"no suffix", "metica_android_reward", 0},
		{"non numeric suffix", "metica_android_reward_a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := AdUnit{Name: tt.unitName}
			assert.Equal(t, tt.expected, unit.NameSuffix())
		})
	}
}

func TestCountryGroupsEqual(t *testing.T) {
	groups := []CountryGroup{
		{
			Name: "tier1",
			CPM:  "2.10",
			Countries: CountryRule{
				Type:   CountryRuleInclude,
				Values: []string{"de", "us"},
			},
		},
	}

	same := []CountryGroup{
		{
			Name: "tier1",
			CPM:  "2.10",
			Countries: CountryRule{
				Type:   CountryRuleInclude,
				Values: []string{"DE", "US"},
			},
		},
	}

	differentCPM := []CountryGroup{
		{
			Name: "tier1",
			CPM:  "2.20",
			Countries: CountryRule{
				Type:   CountryRuleInclude,
				Values: []string{"de", "us"},
			},
		},
	}

	differentCountries := []CountryGroup{
		{
			Name: "tier1",
			CPM:  "2.10",
			Countries: CountryRule{
				Type:   CountryRuleInclude,
				Values: []string{"us", "de"},
			},
		},
	}

	assert.True(t, CountryGroupsEqual(groups, same), "country codes compare case insensitively")
	assert.False(t, CountryGroupsEqual(groups, differentCPM))
	assert.False(t, CountryGroupsEqual(groups, differentCountries), "value order is part of the identity")
	assert.False(t, CountryGroupsEqual(groups, nil))
	assert.True(t, CountryGroupsEqual(nil, nil))
}

package flooring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meticalabs/smart-floors-external/internal/domain"
)

func testSnapshot() *domain.PercentileSnapshot {
	return &domain.PercentileSnapshot{
		Rows: []domain.PercentileRow{
			{Country: "us", Percentiles: map[string]float64{"p75": 0.0035}},
			{Country: "de", Percentiles: map[string]float64{"p75": 0.0021}},
			{Country: "br", Percentiles: map[string]float64{"p75": 0.0004}},
		},
	}
}

func TestCompileMaxAcrossMembers(t *testing.T) {
	compiler := NewCompiler("p75")
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us", "de"}},
		{Name: "tier3", Rule: domain.CountryRuleInclude, Countries: []string{"br"}},
	}

	groups, err := compiler.Compile(testSnapshot(), partition)

	assert.NoError(t, err)
	assert.Len(t, groups, 2)

	// 0.0035 * 1000 = 3.50 wins over 2.10 for tier1
	assert.Equal(t, "tier1", groups[0].Name)
	assert.Equal(t, "3.50", groups[0].CPM)
	assert.Equal(t, []string{"de", "us"}, groups[0].Countries.Values)

	assert.Equal(t, "tier3", groups[1].Name)
	assert.Equal(t, "0.40", groups[1].CPM)
}

func TestCompileDeterministic(t *testing.T) {
	compiler := NewCompiler("p75")
	partition := domain.DefaultTierPartition()

	first, err := compiler.Compile(testSnapshot(), partition)
	assert.NoError(t, err)

	second, err := compiler.Compile(testSnapshot(), domain.DefaultTierPartition())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, domain.CountryGroupsEqual(first, second))
}

func TestCompileOmitsGroupsWithoutData(t *testing.T) {
	compiler := NewCompiler("p75")
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us"}},
		{Name: "tier2", Rule: domain.CountryRuleInclude, Countries: []string{"jp", "kr"}},
	}

	groups, err := compiler.Compile(testSnapshot(), partition)

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, "tier1", groups[0].Name)
}

func TestCompileDropsMembersWithoutData(t *testing.T) {
	compiler := NewCompiler("p75")
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us", "jp"}},
	}

	groups, err := compiler.Compile(testSnapshot(), partition)

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, []string{"us"}, groups[0].Countries.Values)
}

func TestCompileCapsFloor(t *testing.T) {
	compiler := NewCompiler("p75")
	snapshot := &domain.PercentileSnapshot{
		Rows: []domain.PercentileRow{
			{Country: "us", Percentiles: map[string]float64{"p75": 9.99}},
		},
	}
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us"}},
	}

	groups, err := compiler.Compile(snapshot, partition)

	assert.NoError(t, err)
	assert.Equal(t, "500.00", groups[0].CPM)
}

func TestCompileOverlapFirstGroupWins(t *testing.T) {
	compiler := NewCompiler("p75")
	partition := domain.GroupPartition{
		{Name: "a_first", Rule: domain.CountryRuleInclude, Countries: []string{"us", "de"}},
		{Name: "b_second", Rule: domain.CountryRuleInclude, Countries: []string{"de", "br"}},
	}

	groups, err := compiler.Compile(testSnapshot(), partition)

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"de", "us"}, groups[0].Countries.Values)
	assert.Equal(t, []string{"br"}, groups[1].Countries.Values, "de stays with the group defined first")
}

func TestCompileOmitsGroupMissingTargetPercentile(t *testing.T) {
	compiler := NewCompiler("p75")
	snapshot := &domain.PercentileSnapshot{
		Rows: []domain.PercentileRow{
			{Country: "us", Percentiles: map[string]float64{"p75": 0.0035}},
			{Country: "jp", Percentiles: map[string]float64{"p50": 0.0010}},
		},
	}
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us"}},
		{Name: "tier2", Rule: domain.CountryRuleInclude, Countries: []string{"jp"}},
	}

	groups, err := compiler.Compile(snapshot, partition)

	// jp exists in the snapshot but has no p75: its group is dropped, the
	// rest of the run proceeds
	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, "tier1", groups[0].Name)
}

func TestCompileNothingCompilesIsAnError(t *testing.T) {
	compiler := NewCompiler("p99")
	partition := domain.GroupPartition{
		{Name: "tier1", Rule: domain.CountryRuleInclude, Countries: []string{"us"}},
	}

	_, err := compiler.Compile(testSnapshot(), partition)

	assert.ErrorIs(t, err, ErrPercentileUnavailable)
}

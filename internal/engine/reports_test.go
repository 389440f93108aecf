package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
)

func TestUnusedObjectsIgnoresReferencedAddress(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	// "db" is referenced by rule allow-db; "web" in shared is referenced
	// by nothing.
	unused, err := e.UnusedObjects(pankind.Address, devtype.DeviceGroup("DG1"))
	require.NoError(t, err)
	assert.Empty(t, unused)

	unused, err = e.UnusedObjects(pankind.Address, devtype.Shared())
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, unused)
}

func TestUnusedObjectsRejectsRuleKind(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	_, err := e.UnusedObjects(pankind.RuleSecurity, devtype.Shared())
	assert.Error(t, err)
}

func TestDuplicateObjectsReportsClassesWithoutMutating(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	for _, name := range []string{"dup-one", "dup-two"} {
		el := newAddressEntry(t, name, "10.5.0.1/32")
		require.NoError(t, e.AddObject(pankind.Address, devtype.DeviceGroup("DG2"), el))
	}

	classes, err := e.DuplicateObjects(pankind.Address, devtype.DeviceGroup("DG2"))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "dup-one", classes[0].Primary)
	assert.Equal(t, []string{"dup-two"}, classes[0].Removed)

	// report only - both entries are still present.
	for _, name := range []string{"dup-one", "dup-two"} {
		n, err := e.GetObject(pankind.Address, name, devtype.DeviceGroup("DG2"))
		require.NoError(t, err)
		assert.NotNil(t, n)
	}
}

func TestRuleCoverageCountsDisabledAndAnyAny(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	report, err := e.RuleCoverage()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Disabled)

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, devtype.DeviceGroup("DG1"), entry.Context)
	assert.Equal(t, pankind.RuleSecurity, entry.Kind)
	assert.Equal(t, 2, entry.Total)
	assert.Equal(t, 1, entry.Disabled)
	assert.Equal(t, 1, entry.AnyAny) // deny-all is any-to-any
}

func TestReferenceCheckResolvesAndListsReferrers(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	result, err := e.ReferenceCheck(pankind.Address, "db", devtype.DeviceGroup("DG1"))
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, devtype.DeviceGroup("DG1"), result.FoundIn)
	assert.Contains(t, result.ReferencedBy, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-db"})

	result, err = e.ReferenceCheck(pankind.Address, "nope", devtype.DeviceGroup("DG1"))
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Empty(t, result.ReferencedBy)
}

func TestHitCountAnalysisClassifies(t *testing.T) {
	e := buildEngine(t, panoramaFixture)
	entries, err := e.HitCountAnalysis(map[string]int{"allow-db": 500, "deny-all": 3}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byRule := map[string]HitCountEntry{}
	for _, entry := range entries {
		byRule[entry.Rule] = entry
	}
	assert.Equal(t, HitActive, byRule["allow-db"].Class)
	assert.Equal(t, HitRarelyUsed, byRule["deny-all"].Class)

	entries, err = e.HitCountAnalysis(map[string]int{}, 0)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, HitUnused, entry.Class)
		assert.Zero(t, entry.Hits)
	}
}

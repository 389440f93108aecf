package refgraph

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteReferencesUpdatesGroupAndRule(t *testing.T) {
	g := buildGraph(t)

	n, err := g.RewriteReferences(Query{Kind: pankind.Address, Name: "web", Context: devtype.Shared()}, "web-renamed")
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	group, err := g.resolveObjectEntry(pankind.AddressGroup, "servers", devtype.DeviceGroup("DG1"))
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Contains(t, group.Child("static").MemberNames(), "web-renamed")
	assert.NotContains(t, group.Child("static").MemberNames(), "web")

	rule, err := g.resolvePolicyContainer(pankind.RuleSecurity, devtype.DeviceGroup("DG1"), rulebasePositions(devtype.Panorama)[0])
	require.NoError(t, err)
	require.NotNil(t, rule)
	entry := rule.ChildNamed("entry", "allow-web")
	require.NotNil(t, entry)
	assert.Contains(t, entry.Child("destination").MemberNames(), "web-renamed")
}

func TestReplaceInPlaceDedupesAfterRename(t *testing.T) {
	out, changed := replaceInPlace([]string{"server1", "server-one", "db-server"}, "server-one", "server1")
	assert.True(t, changed)
	assert.Equal(t, []string{"server1", "db-server"}, out)
}

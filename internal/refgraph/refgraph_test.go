package refgraph

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const panoramaFixture = `<config version="11.0">
  <shared>
    <address>
      <entry name="web"><ip-netmask>10.0.0.1/32</ip-netmask></entry>
    </address>
    <tag>
      <entry name="internal"><color>color1</color></entry>
    </tag>
  </shared>
  <devices>
    <entry name="localhost.localdomain">
      <device-group>
        <entry name="parent-dg"/>
        <entry name="DG1"><parent-dg>parent-dg</parent-dg>
          <address>
            <entry name="host-a"><ip-netmask>10.0.1.1/32</ip-netmask></entry>
          </address>
          <address-group>
            <entry name="servers"><static><member>host-a</member><member>web</member></static></entry>
          </address-group>
          <pre-rulebase>
            <security>
              <rules>
                <entry name="allow-web">
                  <source><member>host-a</member></source>
                  <destination><member>web</member></destination>
                  <tag><member>internal</member></tag>
                </entry>
              </rules>
            </security>
          </pre-rulebase>
        </entry>
      </device-group>
    </entry>
  </devices>
</config>`

func buildGraph(t *testing.T) *Graph {
	t.Helper()
	doc, err := xmltree.ParseString(panoramaFixture)
	require.NoError(t, err)
	return New(doc.Root, devtype.Panorama, panver.MustParse("11.0"))
}

func TestAncestorChainWalksParentDeviceGroups(t *testing.T) {
	g := buildGraph(t)
	chain := g.AncestorChain(devtype.DeviceGroup("DG1"))
	require.Len(t, chain, 3)
	assert.Equal(t, devtype.DeviceGroup("DG1"), chain[0])
	assert.Equal(t, devtype.DeviceGroup("parent-dg"), chain[1])
	assert.Equal(t, devtype.Shared(), chain[2])
}

func TestAddressGroupDependsOnResolvesAcrossScopes(t *testing.T) {
	g := buildGraph(t)
	deps, err := g.DependsOn(Query{Kind: pankind.AddressGroup, Name: "servers", Context: devtype.DeviceGroup("DG1")})
	require.NoError(t, err)

	assert.Contains(t, deps, pankind.Key{Kind: pankind.Address, Name: "host-a"})
	assert.Contains(t, deps, pankind.Key{Kind: pankind.Address, Name: "web"})
}

func TestRuleDependsOnCollectsReferences(t *testing.T) {
	g := buildGraph(t)
	deps, err := g.DependsOn(Query{Kind: pankind.RuleSecurity, Name: "allow-web", Context: devtype.DeviceGroup("DG1")})
	require.NoError(t, err)

	assert.Contains(t, deps, pankind.Key{Kind: pankind.Address, Name: "host-a"})
	assert.Contains(t, deps, pankind.Key{Kind: pankind.Address, Name: "web"})
	assert.Contains(t, deps, pankind.Key{Kind: pankind.Tag, Name: "internal"})
}

func TestReferencedBySharedObjectSeenFromDeviceGroup(t *testing.T) {
	g := buildGraph(t)
	referrers, err := g.ReferencedBy(Query{Kind: pankind.Address, Name: "web", Context: devtype.Shared()})
	require.NoError(t, err)

	assert.Contains(t, referrers, pankind.Key{Kind: pankind.AddressGroup, Name: "servers"})
	assert.Contains(t, referrers, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-web"})
}

func TestReferencedByDeviceGroupScopedObject(t *testing.T) {
	g := buildGraph(t)
	referrers, err := g.DependsOn(Query{Kind: pankind.AddressGroup, Name: "servers", Context: devtype.DeviceGroup("DG1")})
	require.NoError(t, err)
	assert.NotEmpty(t, referrers)

	hostReferrers, err := g.ReferencedBy(Query{Kind: pankind.Address, Name: "host-a", Context: devtype.DeviceGroup("DG1")})
	require.NoError(t, err)
	assert.Contains(t, hostReferrers, pankind.Key{Kind: pankind.AddressGroup, Name: "servers"})
}

func TestTagsFromDynamicFilter(t *testing.T) {
	tags := TagsFromDynamicFilter("'internal' and 'web' or not 'legacy'")
	assert.Equal(t, []string{"internal", "web", "legacy"}, tags)
}

package merge

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/conflict"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mergeFixture = `<config version="11.0">
  <shared>
    <tag>
      <entry name="internal"><color>color1</color></entry>
    </tag>
  </shared>
  <devices>
    <entry name="localhost.localdomain">
      <device-group>
        <entry name="DG1">
          <address>
            <entry name="host-a"><ip-netmask>10.0.1.1/32</ip-netmask><tag><member>internal</member></tag></entry>
          </address>
          <address-group>
            <entry name="servers"><static><member>host-a</member></static></entry>
          </address-group>
          <pre-rulebase>
            <security>
              <rules>
                <entry name="allow-web">
                  <source><member>host-a</member></source>
                  <destination><member>any</member></destination>
                  <application><member>any</member></application>
                  <service><member>any</member></service>
                  <action>allow</action>
                  <tag><member>internal</member></tag>
                </entry>
                <entry name="deny-rest">
                  <source><member>any</member></source>
                  <destination><member>any</member></destination>
                  <application><member>any</member></application>
                  <service><member>any</member></service>
                  <action>deny</action>
                </entry>
              </rules>
            </security>
          </pre-rulebase>
        </entry>
        <entry name="DG2"/>
      </device-group>
    </entry>
  </devices>
</config>`

func buildMerger(t *testing.T) *Merger {
	t.Helper()
	doc, err := xmltree.ParseString(mergeFixture)
	require.NoError(t, err)
	resolver := conflict.New(conflict.Skip, nil)
	return New(doc.Root, 1, devtype.Panorama, panver.MustParse("11.0"), pankind.Default, resolver, nil, nil)
}

func TestCopyObjectSimple(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyObject(pankind.Address, "host-a", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.Address, Name: "host-a"})

	path, err := xpath.ObjectXPath(pankind.Address, devtype.Panorama, devtype.DeviceGroup("DG2"), panver.MustParse("11.0"), "host-a")
	require.NoError(t, err)
	n, err := xmltree.FindOne(m.Root, path)
	require.NoError(t, err)
	require.NotNil(t, n)

	// tag cascade always runs regardless of CopyReferences.
	tagPath, err := xpath.ObjectXPath(pankind.Tag, devtype.Panorama, devtype.DeviceGroup("DG2"), panver.MustParse("11.0"), "internal")
	require.NoError(t, err)
	tagNode, err := xmltree.FindOne(m.Root, tagPath)
	require.NoError(t, err)
	assert.NotNil(t, tagNode)
}

func TestCopyObjectNotFoundInSource(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyObject(pankind.Address, "nope", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Not found in source", report.Skipped[0].Reason)
}

func TestCopyObjectSkipsOnConflictByDefault(t *testing.T) {
	m := buildMerger(t)
	_, _, err := m.CopyObject(pankind.Address, "host-a", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)

	ok, report, err := m.CopyObject(pankind.Address, "host-a", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "already exists", report.Skipped[0].Reason)
}

func TestCopyObjectRenamesOnConflict(t *testing.T) {
	m := buildMerger(t)
	_, _, err := m.CopyObject(pankind.Address, "host-a", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)

	ok, report, err := m.CopyObject(pankind.Address, "host-a", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{ConflictStrategy: conflict.Rename})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.Address, Name: "host-a_imported"})

	// the occupant stays; the renamed copy sits alongside it.
	for _, name := range []string{"host-a", "host-a_imported"} {
		path, err := xpath.ObjectXPath(pankind.Address, devtype.Panorama, devtype.DeviceGroup("DG2"), panver.MustParse("11.0"), name)
		require.NoError(t, err)
		n, err := xmltree.FindOne(m.Root, path)
		require.NoError(t, err)
		assert.NotNil(t, n, name)
	}
}

func TestCopyObjectCascadesGroupMembers(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyObject(pankind.AddressGroup, "servers", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{CopyReferences: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.AddressGroup, Name: "servers"})
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.Address, Name: "host-a"})
}

func TestCopyObjectWithDependenciesCopiesRuleReferences(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyObjectWithDependencies(pankind.RuleSecurity, "allow-web", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.Address, Name: "host-a"})
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-web"})
}

func TestCopyObjectsBatchSharesVisitedSet(t *testing.T) {
	m := buildMerger(t)
	report, err := m.CopyObjects(pankind.Address, []string{"host-a", "host-a"}, devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	// host-a plus its tag "internal", which the tag cascade copies too.
	assert.Len(t, report.Merged, 2)
	assert.Len(t, report.Skipped, 1)
}

func TestCopyPolicyInsertsAtBottomByDefault(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyPolicy(pankind.RuleSecurity, "allow-web", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), PolicyOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-web"})

	containerPath, err := xpath.PolicyXPath(pankind.RuleSecurity, devtype.Panorama, devtype.DeviceGroup("DG2"), panver.MustParse("11.0"), xpath.RulebasePre, "")
	require.NoError(t, err)
	container, err := xmltree.FindOne(m.Root, containerPath)
	require.NoError(t, err)
	require.NotNil(t, container)
	entries := container.ChildrenByTag("entry")
	require.Len(t, entries, 1)
	assert.Equal(t, "allow-web", entries[0].Name())
}

func TestCopyPolicyPositionBottomAndTop(t *testing.T) {
	m := buildMerger(t)
	_, _, err := m.CopyPolicy(pankind.RuleSecurity, "allow-web", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), PolicyOptions{Position: PositionBottom})
	require.NoError(t, err)
	_, _, err = m.CopyPolicy(pankind.RuleSecurity, "deny-rest", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), PolicyOptions{Position: PositionTop})
	require.NoError(t, err)

	containerPath, err := xpath.PolicyXPath(pankind.RuleSecurity, devtype.Panorama, devtype.DeviceGroup("DG2"), panver.MustParse("11.0"), xpath.RulebasePre, "")
	require.NoError(t, err)
	container, err := xmltree.FindOne(m.Root, containerPath)
	require.NoError(t, err)
	entries := container.ChildrenByTag("entry")
	require.Len(t, entries, 2)
	assert.Equal(t, "deny-rest", entries[0].Name())
	assert.Equal(t, "allow-web", entries[1].Name())
}

func TestCopyPolicyMissingRefDegradesToBottom(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyPolicy(pankind.RuleSecurity, "allow-web", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), PolicyOptions{
		Position:      PositionAfter,
		RefPolicyName: "nonexistent",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-web"})
}

func TestCopyPolicyNotFoundInSource(t *testing.T) {
	m := buildMerger(t)
	ok, report, err := m.CopyPolicy(pankind.RuleSecurity, "missing-rule", devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), PolicyOptions{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Not found in source", report.Skipped[0].Reason)
}

func TestMergeAllPoliciesCopiesEveryRuleInKind(t *testing.T) {
	m := buildMerger(t)
	report, err := m.MergeAllPolicies(devtype.DeviceGroup("DG1"), devtype.DeviceGroup("DG2"), Options{})
	require.NoError(t, err)
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.RuleSecurity, Name: "allow-web"})
	assert.Contains(t, report.Merged, pankind.Key{Kind: pankind.RuleSecurity, Name: "deny-rest"})
}

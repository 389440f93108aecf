package dedup

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dupAddrFixture holds two address pairs sharing a value, plus a static
// group referencing three of the four.
const dupAddrFixture = `<config version="11.0">
  <devices>
    <entry name="localhost.localdomain">
      <device-group>
        <entry name="DG1">
          <address>
            <entry name="server1"><ip-netmask>10.0.0.1/32</ip-netmask></entry>
            <entry name="server-one"><ip-netmask>10.0.0.1/32</ip-netmask></entry>
            <entry name="db-server"><ip-netmask>10.0.0.2/32</ip-netmask></entry>
            <entry name="database"><ip-netmask>10.0.0.2/32</ip-netmask></entry>
          </address>
          <address-group>
            <entry name="servers">
              <static>
                <member>server1</member>
                <member>server-one</member>
                <member>db-server</member>
              </static>
            </entry>
          </address-group>
        </entry>
      </device-group>
    </entry>
  </devices>
</config>`

func TestDeduplicatePlanShortestPicksPrimaries(t *testing.T) {
	doc, err := xmltree.ParseString(dupAddrFixture)
	require.NoError(t, err)

	container, err := xmltree.FindOne(doc.Root,
		"/config/devices/entry[@name='localhost.localdomain']/device-group/entry[@name='DG1']/address")
	require.NoError(t, err)
	require.NotNil(t, container)

	d := New(doc.Root, doc.Identity(), devtype.Panorama, nil, nil)
	plan, err := d.Plan(container, pankind.Address, Shortest)
	require.NoError(t, err)
	require.Len(t, plan.Classes, 2)

	byPrimary := map[string]Class{}
	for _, c := range plan.Classes {
		byPrimary[c.Primary] = c
	}
	_, hasServer1 := byPrimary["server1"]
	_, hasDatabase := byPrimary["database"]
	assert.True(t, hasServer1)
	assert.True(t, hasDatabase)
	assert.ElementsMatch(t, []string{"server-one"}, byPrimary["server1"].Removed)
	assert.ElementsMatch(t, []string{"db-server"}, byPrimary["database"].Removed)
}

func TestDeduplicateApplyRewritesGroupMembers(t *testing.T) {
	doc, err := xmltree.ParseString(dupAddrFixture)
	require.NoError(t, err)

	container, err := xmltree.FindOne(doc.Root,
		"/config/devices/entry[@name='localhost.localdomain']/device-group/entry[@name='DG1']/address")
	require.NoError(t, err)

	d := New(doc.Root, doc.Identity(), devtype.Panorama, nil, nil)
	ctx := devtype.DeviceGroup("DG1")
	plan, err := d.Plan(container, pankind.Address, Shortest)
	require.NoError(t, err)

	require.NoError(t, d.Apply(container, ctx, panver.MustParse("11.0"), plan))

	assert.Nil(t, container.ChildNamed("entry", "server-one"))
	assert.Nil(t, container.ChildNamed("entry", "db-server"))
	assert.NotNil(t, container.ChildNamed("entry", "server1"))
	assert.NotNil(t, container.ChildNamed("entry", "database"))

	groupContainer, err := xmltree.FindOne(doc.Root,
		"/config/devices/entry[@name='localhost.localdomain']/device-group/entry[@name='DG1']/address-group/entry[@name='servers']/static")
	require.NoError(t, err)
	require.NotNil(t, groupContainer)
	assert.ElementsMatch(t, []string{"server1", "database"}, groupContainer.MemberNames())
}

func TestDeduplicatePlanRejectsUnknownStrategy(t *testing.T) {
	doc, err := xmltree.ParseString(dupAddrFixture)
	require.NoError(t, err)
	d := New(doc.Root, doc.Identity(), devtype.Panorama, nil, nil)
	_, err = d.Plan(doc.Root, pankind.Address, Strategy("bogus"))
	assert.Error(t, err)
}

func TestCanonicalizeNetmaskNormalizesHostBits(t *testing.T) {
	assert.Equal(t, canonicalizeNetmask("10.0.0.5/24"), canonicalizeNetmask("10.0.0.1/24"))
}

func TestCanonicalizeRangeSortsEndpoints(t *testing.T) {
	assert.Equal(t, canonicalizeRange("10.0.0.10-10.0.0.1"), canonicalizeRange("10.0.0.1-10.0.0.10"))
}

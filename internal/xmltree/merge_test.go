package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAppendsUnmatchedChildren(t *testing.T) {
	into, err := ParseFragmentString(`<address><entry name="host-a"><ip-netmask>10.0.0.1/32</ip-netmask></entry></address>`)
	require.NoError(t, err)
	from, err := ParseFragmentString(`<address><entry name="host-b"><ip-netmask>10.0.0.2/32</ip-netmask></entry></address>`)
	require.NoError(t, err)

	require.NoError(t, Merge(into, from, false))
	assert.Len(t, into.Children, 2)
	assert.NotNil(t, into.ChildNamed("entry", "host-b"))
}

func TestMergeRecursesIntoMatchingNamedChild(t *testing.T) {
	into, err := ParseFragmentString(`<address><entry name="host-a"><ip-netmask>10.0.0.1/32</ip-netmask></entry></address>`)
	require.NoError(t, err)
	from, err := ParseFragmentString(`<address><entry name="host-a"><description>updated</description></entry></address>`)
	require.NoError(t, err)

	require.NoError(t, Merge(into, from, false))
	require.Len(t, into.Children, 1)
	merged := into.ChildNamed("entry", "host-a")
	require.NotNil(t, merged)
	assert.Equal(t, "10.0.0.1/32", TextOf(merged.Child("ip-netmask")))
	assert.Equal(t, "updated", TextOf(merged.Child("description")))
}

func TestMergeOverwriteControlsExistingText(t *testing.T) {
	into := NewNode("description")
	into.Text = "old"
	from := NewNode("description")
	from.Text = "new"

	require.NoError(t, Merge(into, from, false))
	assert.Equal(t, "old", into.Text)

	require.NoError(t, Merge(into, from, true))
	assert.Equal(t, "new", into.Text)
}

func TestMergeRequiresSameTag(t *testing.T) {
	into := NewNode("address")
	from := NewNode("service")
	err := Merge(into, from, false)
	assert.Error(t, err)
}

package xmltree

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOneAndFindMany(t *testing.T) {
	root := buildAddressBook()

	one, err := FindOne(root, "/config/shared/address/entry[@name='host-a']")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "host-a", one.Name())

	none, err := FindOne(root, "/config/shared/address/entry[@name='host-z']")
	require.NoError(t, err)
	assert.Nil(t, none)

	many, err := FindMany(root, "/config/shared/address/entry")
	require.NoError(t, err)
	assert.Len(t, many, 3)
}

func TestExists(t *testing.T) {
	root := buildAddressBook()
	ok, err := Exists(root, "/config/shared/address/entry[@name='host-a']")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(root, "/config/shared/address/entry[@name='host-z']")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateChildAndSetText(t *testing.T) {
	parent := NewNode("entry")
	child := CreateChild(parent, "ip-netmask", nil)
	SetText(child, "10.0.0.9/32")
	assert.Equal(t, "10.0.0.9/32", TextOf(child))
	assert.Same(t, parent, child.Parent)
}

func TestDeleteRequiresParent(t *testing.T) {
	detached := NewNode("entry")
	err := Delete(detached)
	require.Error(t, err)
	assert.True(t, engineerr.Of(err, engineerr.Internal))

	parent := NewNode("address")
	child := NewNode("entry")
	parent.AppendChild(child)
	require.NoError(t, Delete(child))
	assert.Empty(t, parent.Children)
}

func TestCloneDeepIsIndependent(t *testing.T) {
	original := NewNode("entry")
	original.SetAttr("name", "host-a")
	member := NewNode("ip-netmask")
	member.Text = "10.0.0.1/32"
	original.AppendChild(member)

	clone := CloneDeep(original)
	clone.SetAttr("name", "host-a-clone")
	clone.Children[0].Text = "10.0.0.2/32"

	assert.Equal(t, "host-a", original.Name())
	assert.Equal(t, "10.0.0.1/32", original.Children[0].Text)
	assert.Nil(t, clone.Parent)
}

func TestEnsurePathCreatesMissingChain(t *testing.T) {
	root := NewNode("config")
	leaf := EnsurePath(root, []PathStep{
		{Tag: "devices"},
		{Tag: "entry", Name: "localhost.localdomain"},
		{Tag: "vsys"},
		{Tag: "entry", Name: "vsys1"},
		{Tag: "address"},
	})
	assert.Equal(t, "address", leaf.Tag)

	again := EnsurePath(root, []PathStep{
		{Tag: "devices"},
		{Tag: "entry", Name: "localhost.localdomain"},
		{Tag: "vsys"},
		{Tag: "entry", Name: "vsys1"},
		{Tag: "address"},
	})
	assert.Same(t, leaf, again)
}

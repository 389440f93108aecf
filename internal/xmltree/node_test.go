package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAttrRoundTrip(t *testing.T) {
	n := NewNode("entry")
	n.SetAttr("name", "web-dns")
	v, ok := n.Attr("name")
	require.True(t, ok)
	assert.Equal(t, "web-dns", v)

	n.SetAttr("name", "web-dns-2")
	v, _ = n.Attr("name")
	assert.Equal(t, "web-dns-2", v)

	n.RemoveAttr("name")
	_, ok = n.Attr("name")
	assert.False(t, ok)
}

func TestNodeChildLookup(t *testing.T) {
	parent := NewNode("address")
	a := NewNode("entry")
	a.SetAttr("name", "host-a")
	b := NewNode("entry")
	b.SetAttr("name", "host-b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	assert.Same(t, a, parent.Child("entry"))
	assert.Same(t, b, parent.ChildNamed("entry", "host-b"))
	assert.Nil(t, parent.ChildNamed("entry", "host-c"))
	assert.Len(t, parent.ChildrenByTag("entry"), 2)
}

func TestNodeInsertAndRemove(t *testing.T) {
	parent := NewNode("members")
	first := NewNode("member")
	first.Text = "one"
	third := NewNode("member")
	third.Text = "three"
	parent.AppendChild(first)
	parent.AppendChild(third)

	second := NewNode("member")
	second.Text = "two"
	parent.InsertChildAt(second, 1)

	require.Len(t, parent.Children, 3)
	assert.Equal(t, "two", parent.Children[1].Text)
	assert.Same(t, parent, second.Parent)

	parent.RemoveChild(second)
	assert.Len(t, parent.Children, 2)
	assert.Nil(t, second.Parent)
}

func TestNodeMemberNames(t *testing.T) {
	group := NewNode("entry")
	group.SetMemberNames([]string{"host-a", "host-b", "host-c"})
	assert.Equal(t, []string{"host-a", "host-b", "host-c"}, group.MemberNames())

	group.SetMemberNames([]string{"host-z"})
	assert.Equal(t, []string{"host-z"}, group.MemberNames())
}

func TestDocumentIdentityStable(t *testing.T) {
	root := NewNode("config")
	doc := NewDocument(root)
	id1 := doc.Identity()
	root.SetAttr("version", "11.0")
	assert.Equal(t, id1, doc.Identity())
}

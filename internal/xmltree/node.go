// Package xmltree is a thin, mutable, parent-pointer tree over a PAN-OS
// configuration document, with typed navigation, cloning, merging,
// diffing, and an XPath-subset evaluator, built directly on
// encoding/xml's tokenizer.
package xmltree

import (
	"fmt"
	"sync/atomic"
)

// Attr is a single XML attribute, kept in declaration order.
type Attr struct {
	Name  string
	Value string
}

var nextID int64

// Node is one element in the configuration tree. Text holds the
// element's immediate character data (PAN-OS configs have no significant
// mixed content); Children holds child elements in document order.
type Node struct {
	id       int64
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
	Parent   *Node
}

// NewNode constructs a detached node with the given tag.
func NewNode(tag string) *Node {
	return &Node{id: atomic.AddInt64(&nextID, 1), Tag: tag}
}

// Document wraps the root element of a parsed configuration tree. Root
// identity (used for cache keying) is the Document's own
// id, stable across mutations of the tree it owns.
type Document struct {
	id   int64
	Root *Node
}

// NewDocument wraps root in a new Document with a fresh identity.
func NewDocument(root *Node) *Document {
	return &Document{id: atomic.AddInt64(&nextID, 1), Root: root}
}

// Identity returns a stable identifier for this document, used as the
// root-identity component of cache keys.
func (d *Document) Identity() int64 {
	return d.id
}

// Attr returns the value of the named attribute and whether it was
// present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or adds) an attribute on n.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr removes the named attribute, if present.
func (n *Node) RemoveAttr(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// Name returns the value of this node's "name" attribute, the PAN-OS
// convention for every entry element (<entry name="...">).
func (n *Node) Name() string {
	v, _ := n.Attr("name")
	return v
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildNamed returns the first direct child with the given tag whose
// "name" attribute equals name, or nil. This is the standard PAN-OS
// "entry" lookup: container.ChildNamed("entry", "web").
func (n *Node) ChildNamed(tag, name string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag && c.Name() == name {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns every direct child with the given tag.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// AppendChild appends child to n's children and sets its Parent.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertChildAt inserts child at position idx (clamped to [0, len]).
func (n *Node) InsertChildAt(child *Node, idx int) {
	child.Parent = n
	if idx < 0 {
		idx = 0
	}
	if idx > len(n.Children) {
		idx = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
}

// IndexOfChild returns the index of child within n.Children, or -1.
func (n *Node) IndexOfChild(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// RemoveChild detaches child from n, if it is a direct child.
func (n *Node) RemoveChild(child *Node) {
	idx := n.IndexOfChild(child)
	if idx < 0 {
		return
	}
	n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	child.Parent = nil
}

// MemberNames returns the text of every direct <member> child, the
// PAN-OS convention for list-valued fields (source/destination/service/
// tag/application members, etc.).
func (n *Node) MemberNames() []string {
	members := n.ChildrenByTag("member")
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Text)
	}
	return out
}

// SetMemberNames replaces n's <member> children with one per name, in
// order.
func (n *Node) SetMemberNames(names []string) {
	for _, c := range n.ChildrenByTag("member") {
		n.RemoveChild(c)
	}
	for _, name := range names {
		m := NewNode("member")
		m.Text = name
		n.AppendChild(m)
	}
}

// String returns a short debug representation, not the serialized XML
// (use PrettyPrint for that).
func (n *Node) String() string {
	if name, ok := n.Attr("name"); ok {
		return fmt.Sprintf("<%s name=%q>", n.Tag, name)
	}
	return fmt.Sprintf("<%s>", n.Tag)
}

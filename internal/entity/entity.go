// Package entity wraps raw xmltree.Node elements in typed read/write
// views for each PAN-OS entity kind. Views are thin:
// they hold a *xmltree.Node and translate field access into
// Child/ChildNamed/MemberNames calls, never copying the underlying tree.
package entity

import (
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// ObjectView is the generic accessor for object kinds with no
// kind-specific logic beyond name/description/tags: region,
// dynamic_user_group, application, application_group, and the eight
// security-profile kinds (whose rich internals the engine treats as
// opaque payload it copies/merges/version-adapts but does not
// field-decompose).
type ObjectView struct {
	Node *xmltree.Node
	Kind pankind.Kind
}

// NewObjectView wraps n as a generic object of the given kind.
func NewObjectView(n *xmltree.Node, kind pankind.Kind) ObjectView {
	return ObjectView{Node: n, Kind: kind}
}

func (o ObjectView) Name() string {
	return o.Node.Name()
}

func (o ObjectView) Description() string {
	return xmltree.TextOf(o.Node.Child("description"))
}

func (o ObjectView) SetDescription(text string) {
	child := o.Node.Child("description")
	if child == nil {
		child = xmltree.CreateChild(o.Node, "description", nil)
	}
	xmltree.SetText(child, text)
}

func (o ObjectView) Tags() []string {
	tagNode := o.Node.Child("tag")
	if tagNode == nil {
		return nil
	}
	return tagNode.MemberNames()
}

func (o ObjectView) SetTags(names []string) {
	tagNode := o.Node.Child("tag")
	if tagNode == nil {
		tagNode = xmltree.CreateChild(o.Node, "tag", nil)
	}
	tagNode.SetMemberNames(names)
}

// boolFlag reads a PAN-OS yes/no leaf, defaulting to false when absent -
// the same presence-vs-value convention used throughout the corpus for
// tri-state boolean elements.
func boolFlag(parent *xmltree.Node, tag string) bool {
	return xmltree.TextOf(parent.Child(tag)) == "yes"
}

func setBoolFlag(parent *xmltree.Node, tag string, value bool) {
	child := parent.Child(tag)
	if child == nil {
		child = xmltree.CreateChild(parent, tag, nil)
	}
	if value {
		xmltree.SetText(child, "yes")
	} else {
		xmltree.SetText(child, "no")
	}
}

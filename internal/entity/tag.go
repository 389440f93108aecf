package entity

import "github.com/ancoleman/panflow-sub001/internal/xmltree"

// Tag is the typed view over a <tag><entry> element.
type Tag struct {
	Node *xmltree.Node
}

func NewTag(n *xmltree.Node) Tag {
	return Tag{Node: n}
}

func (t Tag) Name() string {
	return t.Node.Name()
}

func (t Tag) Color() string {
	return xmltree.TextOf(t.Node.Child("color"))
}

func (t Tag) SetColor(value string) {
	child := t.Node.Child("color")
	if child == nil {
		child = xmltree.CreateChild(t.Node, "color", nil)
	}
	xmltree.SetText(child, value)
}

func (t Tag) Comments() string {
	return xmltree.TextOf(t.Node.Child("comments"))
}

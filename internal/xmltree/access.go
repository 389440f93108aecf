package xmltree

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
)

// FindOne returns the first node matching xpath under root, or nil if
// none match.
func FindOne(root *Node, xpath string) (*Node, error) {
	nodes, err := Eval(root, xpath)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// FindMany returns every node matching xpath under root.
func FindMany(root *Node, xpath string) ([]*Node, error) {
	return Eval(root, xpath)
}

// Exists reports whether xpath resolves to at least one node under root.
func Exists(root *Node, xpath string) (bool, error) {
	n, err := FindOne(root, xpath)
	if err != nil {
		return false, err
	}
	return n != nil, nil
}

// TextOf returns n's immediate text content, or "" if n is nil.
func TextOf(n *Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// AttrOf returns the named attribute of n, or "" if n is nil or the
// attribute is absent.
func AttrOf(n *Node, name string) string {
	if n == nil {
		return ""
	}
	v, _ := n.Attr(name)
	return v
}

// CreateChild creates a new child element with the given tag and
// attributes under parent, appending it and returning it.
func CreateChild(parent *Node, tag string, attrs map[string]string) *Node {
	child := NewNode(tag)
	for k, v := range attrs {
		child.SetAttr(k, v)
	}
	parent.AppendChild(child)
	return child
}

// SetText sets n's immediate text content.
func SetText(n *Node, text string) {
	n.Text = text
}

// Delete detaches n from its parent. It returns an Internal error if n is
// nil or has no parent.
func Delete(n *Node) error {
	if n == nil {
		return engineerr.New(engineerr.Internal, "cannot delete nil node")
	}
	if n.Parent == nil {
		return engineerr.New(engineerr.Internal, "detached element with no parent when one was expected")
	}
	n.Parent.RemoveChild(n)
	return nil
}

// CloneDeep returns a detached deep copy of n, including all
// descendants, attributes, and text, but not n's Parent link.
func CloneDeep(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := NewNode(n.Tag)
	clone.Text = n.Text
	clone.Attrs = append([]Attr(nil), n.Attrs...)
	clone.Children = make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		clone.AppendChild(CloneDeep(c))
	}
	return clone
}

// EnsurePath walks down from root creating any missing container
// elements along the given tag path, preserving @name predicates for
// named segments. Each step is a (tag, name) pair; name
// may be empty for unnamed containers like "address".
type PathStep struct {
	Tag  string
	Name string // empty if this step has no @name predicate
}

// EnsureXPath finds or creates every node along a concrete (literal,
// non-wildcard, non-positional) absolute xpath under root, preserving
// "[@name='...']" predicates as the synthesized node's name attribute.
// root must match the xpath's first segment.
func EnsureXPath(root *Node, path string) (*Node, error) {
	segs, err := parseXPath(path)
	if err != nil {
		return nil, err
	}
	if !matchesSegment(root, segs[0]) || segs[0].descendant {
		return nil, engineerr.Newf(engineerr.InvalidXPath, "root does not match first xpath segment: %q", path)
	}

	cur := root
	for _, seg := range segs[1:] {
		if seg.wildcard || seg.position > 0 || seg.descendant {
			return nil, engineerr.Newf(engineerr.InvalidXPath, "cannot synthesize a wildcard/positional/descendant segment: %q", path)
		}
		var next *Node
		if seg.hasNameEq {
			next = cur.ChildNamed(seg.tag, seg.nameEq)
		} else {
			next = cur.Child(seg.tag)
		}
		if next == nil {
			next = NewNode(seg.tag)
			if seg.hasNameEq {
				next.SetAttr("name", seg.nameEq)
			}
			cur.AppendChild(next)
		}
		cur = next
	}
	return cur, nil
}

// EnsurePath finds or creates the chain of steps under root, returning
// the final node.
func EnsurePath(root *Node, steps []PathStep) *Node {
	cur := root
	for _, step := range steps {
		var next *Node
		if step.Name != "" {
			next = cur.ChildNamed(step.Tag, step.Name)
		} else {
			next = cur.Child(step.Tag)
		}
		if next == nil {
			next = NewNode(step.Tag)
			if step.Name != "" {
				next.SetAttr("name", step.Name)
			}
			cur.AppendChild(next)
		}
		cur = next
	}
	return cur
}

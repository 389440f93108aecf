package entity

import (
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// AddrType enumerates the four value forms an address object may carry,
// exactly one at a time.
type AddrType string

const (
	AddrIPNetmask  AddrType = "ip-netmask"
	AddrIPRange    AddrType = "ip-range"
	AddrFQDN       AddrType = "fqdn"
	AddrIPWildcard AddrType = "ip-wildcard"
)

// addrTypeTags lists the four value-form tags in a fixed order, used
// both to find which one is present and to enumerate for validation.
var addrTypeTags = []AddrType{AddrIPNetmask, AddrIPRange, AddrFQDN, AddrIPWildcard}

// Address is the typed view over an <address><entry> element.
type Address struct {
	Node *xmltree.Node
}

// NewAddress wraps n as an Address view.
func NewAddress(n *xmltree.Node) Address {
	return Address{Node: n}
}

func (a Address) Name() string {
	return a.Node.Name()
}

// AddrType reports which of the four value forms is present on this
// element, and false if none is (a structurally invalid address).
func (a Address) AddrType() (AddrType, bool) {
	for _, t := range addrTypeTags {
		if a.Node.Child(string(t)) != nil {
			return t, true
		}
	}
	return "", false
}

// Value returns the text of whichever value-form child is present.
func (a Address) Value() string {
	t, ok := a.AddrType()
	if !ok {
		return ""
	}
	return xmltree.TextOf(a.Node.Child(string(t)))
}

// SetValue replaces the address's value form, removing any other
// value-form children first so the "exactly one of four" invariant holds.
func (a Address) SetValue(addrType AddrType, value string) {
	for _, t := range addrTypeTags {
		if t == addrType {
			continue
		}
		if existing := a.Node.Child(string(t)); existing != nil {
			a.Node.RemoveChild(existing)
		}
	}
	child := a.Node.Child(string(addrType))
	if child == nil {
		child = xmltree.CreateChild(a.Node, string(addrType), nil)
	}
	xmltree.SetText(child, value)
}

func (a Address) Description() string {
	return ObjectView{Node: a.Node}.Description()
}

func (a Address) SetDescription(text string) {
	ObjectView{Node: a.Node}.SetDescription(text)
}

func (a Address) Tags() []string {
	return ObjectView{Node: a.Node}.Tags()
}

func (a Address) SetTags(names []string) {
	ObjectView{Node: a.Node}.SetTags(names)
}

func (a Address) Color() string {
	return xmltree.TextOf(a.Node.Child("color"))
}

// AddressGroup is the typed view over an <address-group><entry> element.
// Invariant: static xor dynamic, never both.
type AddressGroup struct {
	Node *xmltree.Node
}

func NewAddressGroup(n *xmltree.Node) AddressGroup {
	return AddressGroup{Node: n}
}

func (g AddressGroup) Name() string {
	return g.Node.Name()
}

// IsStatic reports whether this group carries a <static> member list.
func (g AddressGroup) IsStatic() bool {
	return g.Node.Child("static") != nil
}

// IsDynamic reports whether this group carries a <dynamic> filter.
func (g AddressGroup) IsDynamic() bool {
	return g.Node.Child("dynamic") != nil
}

// StaticMembers returns the member names of a static group.
func (g AddressGroup) StaticMembers() []string {
	static := g.Node.Child("static")
	if static == nil {
		return nil
	}
	return static.MemberNames()
}

// SetStaticMembers replaces the group's static member list, removing any
// dynamic filter so the mutual-exclusion invariant holds.
func (g AddressGroup) SetStaticMembers(names []string) {
	if dyn := g.Node.Child("dynamic"); dyn != nil {
		g.Node.RemoveChild(dyn)
	}
	static := g.Node.Child("static")
	if static == nil {
		static = xmltree.CreateChild(g.Node, "static", nil)
	}
	static.SetMemberNames(names)
}

// DynamicFilter returns the text of a dynamic group's tag-filter
// expression.
func (g AddressGroup) DynamicFilter() string {
	dyn := g.Node.Child("dynamic")
	if dyn == nil {
		return ""
	}
	return xmltree.TextOf(dyn.Child("filter"))
}

// SetDynamicFilter replaces the group's dynamic filter, removing any
// static member list so the mutual-exclusion invariant holds.
func (g AddressGroup) SetDynamicFilter(expr string) {
	if static := g.Node.Child("static"); static != nil {
		g.Node.RemoveChild(static)
	}
	dyn := g.Node.Child("dynamic")
	if dyn == nil {
		dyn = xmltree.CreateChild(g.Node, "dynamic", nil)
	}
	filter := dyn.Child("filter")
	if filter == nil {
		filter = xmltree.CreateChild(dyn, "filter", nil)
	}
	xmltree.SetText(filter, expr)
}

func (g AddressGroup) Description() string {
	return ObjectView{Node: g.Node}.Description()
}

func (g AddressGroup) Tags() []string {
	return ObjectView{Node: g.Node}.Tags()
}

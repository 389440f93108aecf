package entity

import (
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// SecurityProfileGroup is the typed view over a
// <security-profile-group><entry> (catalog tag "group" nested under
// profiles, per pankind's XMLTag override). It references up to the
// eight security-profile kinds by name.
type SecurityProfileGroup struct {
	Node *xmltree.Node
}

func NewSecurityProfileGroup(n *xmltree.Node) SecurityProfileGroup {
	return SecurityProfileGroup{Node: n}
}

func (g SecurityProfileGroup) Name() string {
	return g.Node.Name()
}

// Profiles returns the referenced profile name for each of the eight
// security-profile kinds that this group actually sets (PAN-OS allows
// at most one name per kind in a profile group).
func (g SecurityProfileGroup) Profiles() map[pankind.Kind]string {
	result := map[pankind.Kind]string{}
	for _, k := range pankind.SecurityProfileKinds {
		child := g.Node.Child(k.XMLTag())
		if child == nil {
			continue
		}
		names := child.MemberNames()
		if len(names) > 0 {
			result[k] = names[0]
		}
	}
	return result
}

// CustomURLCategory is the typed view over a
// <custom-url-category><entry> element.
type CustomURLCategory struct {
	Node *xmltree.Node
}

func NewCustomURLCategory(n *xmltree.Node) CustomURLCategory {
	return CustomURLCategory{Node: n}
}

func (c CustomURLCategory) Name() string {
	return c.Node.Name()
}

// Type returns the category's "type" element, e.g. "URL List" or
// "Category Match".
func (c CustomURLCategory) Type() string {
	return xmltree.TextOf(c.Node.Child("type"))
}

// Members returns the list member entries (URLs for "URL List",
// predefined category names for "Category Match").
func (c CustomURLCategory) Members() []string {
	list := c.Node.Child("list")
	if list == nil {
		return nil
	}
	return list.MemberNames()
}

// ExternalList is the typed view over an <external-list><entry> (EDL)
// element.
type ExternalList struct {
	Node *xmltree.Node
}

func NewExternalList(n *xmltree.Node) ExternalList {
	return ExternalList{Node: n}
}

func (e ExternalList) Name() string {
	return e.Node.Name()
}

// Type returns the EDL's type tag (ip/domain/url/predefined-ip/
// predefined-url) from the nested <type> wrapper, whichever variant is
// present.
func (e ExternalList) Type() string {
	wrapper := e.Node.Child("type")
	if wrapper == nil {
		return ""
	}
	for _, t := range []string{"ip", "domain", "url", "predefined-ip", "predefined-url"} {
		if wrapper.Child(t) != nil {
			return t
		}
	}
	return ""
}

func (e ExternalList) URL() string {
	t := e.Type()
	if t == "" {
		return ""
	}
	return xmltree.TextOf(e.Node.Child("type").Child(t).Child("url"))
}

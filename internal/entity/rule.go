package entity

import (
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// RuleBase wraps the fields common to every rule kind: name, disabled,
// zones, the member-list reference fields, schedule, category, and tag.
// Rule kinds with no further kind-specific fields (pbf, qos,
// authentication, application_override, dos) are represented directly as
// a RuleBase; security and nat layer additional accessors on top.
type RuleBase struct {
	Node *xmltree.Node
	Kind pankind.Kind
}

func NewRuleBase(n *xmltree.Node, kind pankind.Kind) RuleBase {
	return RuleBase{Node: n, Kind: kind}
}

func (r RuleBase) Name() string {
	return r.Node.Name()
}

func (r RuleBase) Disabled() bool {
	return boolFlag(r.Node, "disabled")
}

func (r RuleBase) SetDisabled(v bool) {
	setBoolFlag(r.Node, "disabled", v)
}

func (r RuleBase) memberList(tag string) []string {
	n := r.Node.Child(tag)
	if n == nil {
		return nil
	}
	return n.MemberNames()
}

func (r RuleBase) setMemberList(tag string, names []string) {
	n := r.Node.Child(tag)
	if n == nil {
		n = xmltree.CreateChild(r.Node, tag, nil)
	}
	n.SetMemberNames(names)
}

func (r RuleBase) FromZones() []string        { return r.memberList("from") }
func (r RuleBase) SetFromZones(v []string)     { r.setMemberList("from", v) }
func (r RuleBase) ToZones() []string           { return r.memberList("to") }
func (r RuleBase) SetToZones(v []string)       { r.setMemberList("to", v) }
func (r RuleBase) Source() []string            { return r.memberList("source") }
func (r RuleBase) SetSource(v []string)        { r.setMemberList("source", v) }
func (r RuleBase) Destination() []string       { return r.memberList("destination") }
func (r RuleBase) SetDestination(v []string)   { r.setMemberList("destination", v) }
func (r RuleBase) Service() []string           { return r.memberList("service") }
func (r RuleBase) SetService(v []string)       { r.setMemberList("service", v) }
func (r RuleBase) Application() []string       { return r.memberList("application") }
func (r RuleBase) SetApplication(v []string)   { r.setMemberList("application", v) }
func (r RuleBase) Category() []string          { return r.memberList("category") }
func (r RuleBase) SetCategory(v []string)      { r.setMemberList("category", v) }
func (r RuleBase) Tag() []string               { return r.memberList("tag") }
func (r RuleBase) SetTag(v []string)           { r.setMemberList("tag", v) }
func (r RuleBase) SourceUser() []string        { return r.memberList("source-user") }
func (r RuleBase) SetSourceUser(v []string)    { r.setMemberList("source-user", v) }

func (r RuleBase) Schedule() string {
	return xmltree.TextOf(r.Node.Child("schedule"))
}

func (r RuleBase) SetSchedule(name string) {
	child := r.Node.Child("schedule")
	if child == nil {
		child = xmltree.CreateChild(r.Node, "schedule", nil)
	}
	xmltree.SetText(child, name)
}

func (r RuleBase) LogSetting() string {
	return xmltree.TextOf(r.Node.Child("log-setting"))
}

// ProfileSettingGroup returns the referenced security_profile_group
// names under profile-setting/group (usually zero or one, modeled as a
// list for uniformity with the member-list reference fields).
func (r RuleBase) ProfileSettingGroup() []string {
	ps := r.Node.Child("profile-setting")
	if ps == nil {
		return nil
	}
	group := ps.Child("group")
	if group == nil {
		return nil
	}
	return group.MemberNames()
}

// ProfileSettingProfiles returns the individual security-profile
// references under profile-setting/profiles, keyed by profile kind.
func (r RuleBase) ProfileSettingProfiles() map[pankind.Kind][]string {
	out := map[pankind.Kind][]string{}
	ps := r.Node.Child("profile-setting")
	if ps == nil {
		return out
	}
	profiles := ps.Child("profiles")
	if profiles == nil {
		return out
	}
	for _, k := range pankind.SecurityProfileKinds {
		if child := profiles.Child(k.XMLTag()); child != nil {
			out[k] = child.MemberNames()
		}
	}
	return out
}

// SecurityRule layers action and SSL-decryption-mirror era fields on top
// of RuleBase.
type SecurityRule struct {
	RuleBase
}

func NewSecurityRule(n *xmltree.Node) SecurityRule {
	return SecurityRule{RuleBase: NewRuleBase(n, pankind.RuleSecurity)}
}

func (s SecurityRule) Action() string {
	return xmltree.TextOf(s.Node.Child("action"))
}

func (s SecurityRule) SetAction(action string) {
	child := s.Node.Child("action")
	if child == nil {
		child = xmltree.CreateChild(s.Node, "action", nil)
	}
	xmltree.SetText(child, action)
}

func (s SecurityRule) RuleType() string {
	return xmltree.TextOf(s.Node.Child("rule-type"))
}

// NATRule layers bi-directional and translation accessors on top of
// RuleBase. Translation sub-trees are exposed as raw nodes: their
// internal shape (dynamic-ip-and-port vs static-ip, with nested
// translated-address/translated-port) is manipulated directly by the
// NAT splitter
// rather than decomposed into named fields here.
type NATRule struct {
	RuleBase
}

func NewNATRule(n *xmltree.Node) NATRule {
	return NATRule{RuleBase: NewRuleBase(n, pankind.RuleNAT)}
}

func (nr NATRule) BiDirectional() bool {
	return boolFlag(nr.Node, "bi-directional")
}

func (nr NATRule) SetBiDirectional(v bool) {
	setBoolFlag(nr.Node, "bi-directional", v)
}

func (nr NATRule) ClearBiDirectional() {
	if child := nr.Node.Child("bi-directional"); child != nil {
		nr.Node.RemoveChild(child)
	}
}

func (nr NATRule) SourceTranslation() *xmltree.Node {
	return nr.Node.Child("source-translation")
}

func (nr NATRule) DestinationTranslation() *xmltree.Node {
	return nr.Node.Child("destination-translation")
}

func (nr NATRule) Fallback() string {
	return xmltree.TextOf(nr.Node.Child("fallback"))
}

func (nr NATRule) SetFallback(value string) {
	child := nr.Node.Child("fallback")
	if child == nil {
		child = xmltree.CreateChild(nr.Node, "fallback", nil)
	}
	xmltree.SetText(child, value)
}

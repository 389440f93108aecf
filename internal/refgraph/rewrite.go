package refgraph

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// RewriteReferences renames every in-scope reference to q.Name (of
// q.Kind) to newName, using the same reachable-context enumeration and
// per-kind projection list as ReferencedBy, plus group member lists. It
// returns the number of member-list/field entries actually changed.
func (g *Graph) RewriteReferences(q Query, newName string) (int, error) {
	contexts, err := g.reachableContexts(q.Context)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ctx := range contexts {
		n, err := g.rewriteInContext(ctx, q, newName)
		if err != nil {
			return count, err
		}
		count += n
	}
	return count, nil
}

// replaceInPlace renames every occurrence of from to to within names,
// then collapses duplicates that renaming may have introduced (e.g. a
// list already containing the primary name), keeping first-occurrence
// order.
func replaceInPlace(names []string, from, to string) ([]string, bool) {
	changed := false
	renamed := make([]string, len(names))
	for i, n := range names {
		if n == from {
			renamed[i] = to
			changed = true
		} else {
			renamed[i] = n
		}
	}
	if !changed {
		return names, false
	}

	seen := make(map[string]bool, len(renamed))
	out := make([]string, 0, len(renamed))
	for _, n := range renamed {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, true
}

func (g *Graph) rewriteInContext(ctx devtype.Context, q Query, newName string) (int, error) {
	count := 0

	rewriteMemberList := func(get func() []string, set func([]string)) {
		names := get()
		if len(names) == 0 {
			return
		}
		rewritten, changed := replaceInPlace(names, q.Name, newName)
		if changed {
			set(rewritten)
			count++
		}
	}

	if q.Kind == pankind.Address || q.Kind == pankind.AddressGroup {
		if container, err := g.resolveObjectContainer(pankind.AddressGroup, ctx); err == nil && container != nil {
			for _, entry := range container.ChildrenByTag("entry") {
				group := entity.NewAddressGroup(entry)
				if group.IsStatic() {
					rewriteMemberList(group.StaticMembers, group.SetStaticMembers)
				}
			}
		}
	}

	if q.Kind == pankind.Tag {
		if container, err := g.resolveObjectContainer(pankind.AddressGroup, ctx); err == nil && container != nil {
			for _, entry := range container.ChildrenByTag("entry") {
				group := entity.NewAddressGroup(entry)
				if group.IsDynamic() {
					rewritten := rewriteDynamicFilterTag(group.DynamicFilter(), q.Name, newName)
					if rewritten != group.DynamicFilter() {
						group.SetDynamicFilter(rewritten)
						count++
					}
				}
			}
		}
	}

	if q.Kind == pankind.Service || q.Kind == pankind.ServiceGroup {
		if container, err := g.resolveObjectContainer(pankind.ServiceGroup, ctx); err == nil && container != nil {
			for _, entry := range container.ChildrenByTag("entry") {
				group := entity.NewServiceGroup(entry)
				rewriteMemberList(group.Members, group.SetMembers)
			}
		}
	}

	if container, err := g.resolveObjectContainer(pankind.SecurityProfileGrp, ctx); err == nil && container != nil {
		for _, entry := range container.ChildrenByTag("entry") {
			child := entry.Child(q.Kind.XMLTag())
			if child == nil {
				continue
			}
			rewriteMemberList(child.MemberNames, child.SetMemberNames)
		}
	}

	for _, ruleKind := range pankind.RuleKinds {
		for _, position := range rulebasePositions(g.DeviceType) {
			ruleContainer, err := g.resolvePolicyContainer(ruleKind, ctx, position)
			if err != nil || ruleContainer == nil {
				continue
			}
			for _, entry := range ruleContainer.ChildrenByTag("entry") {
				rule := entity.NewRuleBase(entry, ruleKind)
				if q.Kind == pankind.Address || q.Kind == pankind.AddressGroup {
					rewriteMemberList(rule.Source, rule.SetSource)
					rewriteMemberList(rule.Destination, rule.SetDestination)
				}
				if q.Kind == pankind.Service || q.Kind == pankind.ServiceGroup {
					rewriteMemberList(rule.Service, rule.SetService)
				}
				if q.Kind == pankind.Application || q.Kind == pankind.ApplicationGroup {
					rewriteMemberList(rule.Application, rule.SetApplication)
				}
				if q.Kind == pankind.CustomURLCategory {
					rewriteMemberList(rule.Category, rule.SetCategory)
				}
				if q.Kind == pankind.Tag {
					rewriteMemberList(rule.Tag, rule.SetTag)
				}
				if q.Kind == pankind.SecurityProfileGrp {
					rewriteMemberList(rule.ProfileSettingGroup, func(names []string) {
						setProfileSettingGroup(entry, names)
					})
				}
				if q.Kind.IsSecurityProfile() {
					profiles := rule.ProfileSettingProfiles()
					if names, ok := profiles[q.Kind]; ok {
						rewritten, changed := replaceInPlace(names, q.Name, newName)
						if changed {
							setProfileSettingProfile(entry, q.Kind, rewritten)
							count++
						}
					}
				}
				if q.Kind == pankind.Schedule && rule.Schedule() == q.Name {
					rule.SetSchedule(newName)
					count++
				}
			}
		}
	}

	return count, nil
}

// rewriteDynamicFilterTag replaces every quoted occurrence of from with
// to inside a dynamic-group filter expression, leaving operators and any
// other quoted token untouched.
func rewriteDynamicFilterTag(expr, from, to string) string {
	var out []byte
	var quote byte
	var cur []byte
	inQuote := false

	flush := func() {
		token := string(cur)
		if token == from {
			token = to
		}
		out = append(out, quote)
		out = append(out, []byte(token)...)
		out = append(out, quote)
		cur = cur[:0]
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case inQuote:
			if c == quote {
				flush()
				inQuote = false
			} else {
				cur = append(cur, c)
			}
		case c == '\'' || c == '"':
			quote = c
			inQuote = true
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func setProfileSettingGroup(rule *xmltree.Node, names []string) {
	ps := rule.Child("profile-setting")
	if ps == nil {
		ps = xmltree.CreateChild(rule, "profile-setting", nil)
	}
	group := ps.Child("group")
	if group == nil {
		group = xmltree.CreateChild(ps, "group", nil)
	}
	group.SetMemberNames(names)
}

func setProfileSettingProfile(rule *xmltree.Node, kind pankind.Kind, names []string) {
	ps := rule.Child("profile-setting")
	if ps == nil {
		ps = xmltree.CreateChild(rule, "profile-setting", nil)
	}
	profiles := ps.Child("profiles")
	if profiles == nil {
		profiles = xmltree.CreateChild(ps, "profiles", nil)
	}
	child := profiles.Child(kind.XMLTag())
	if child == nil {
		child = xmltree.CreateChild(profiles, kind.XMLTag(), nil)
	}
	child.SetMemberNames(names)
}

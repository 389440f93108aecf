package merge

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// cascadeReferences implements the kind-specific reference cascade:
// for every name node references,
// recursively copy it into dstCtx (the
// recursive call's Options keeps CopyReferences true so deeper object
// cascades - a group-of-groups, a profile referencing an application -
// still chase their own references; visited guards against cycles). Used
// by both the Object Merger (for address_group/service_group/profile
// groups/individual profiles/custom_url_category) and the Policy Merger
// (for a rule's schedule/custom_url_category/profile references).
func (m *Merger) cascadeReferences(kind pankind.Kind, node *xmltree.Node, srcCtx, dstCtx devtype.Context, opts Options, report *Report, visited map[visitKey]bool) error {
	copyChild := func(ck pankind.Kind, cname string) error {
		if cname == "" || cname == "any" {
			return nil
		}
		k := key(ck, cname, dstCtx)
		if visited[k] {
			return nil
		}
		visited[k] = true
		childOpts := Options{
			Validate:         opts.Validate,
			ConflictStrategy: opts.ConflictStrategy,
			SkipIfExists:     opts.SkipIfExists,
			Tolerant:         opts.Tolerant,
			CopyReferences:   true,
		}
		_, _, err := m.copyObjectInternal(ck, cname, srcCtx, dstCtx, childOpts, report, visited)
		return err
	}

	switch {
	case kind == pankind.AddressGroup:
		g := entity.NewAddressGroup(node)
		if g.IsStatic() {
			for _, member := range g.StaticMembers() {
				mk := m.resolveMemberKind(member, srcCtx, pankind.Address, pankind.AddressGroup)
				if err := copyChild(mk, member); err != nil {
					return err
				}
			}
		}
		if g.IsDynamic() {
			for _, tag := range refgraph.TagsFromDynamicFilter(g.DynamicFilter()) {
				if err := copyChild(pankind.Tag, tag); err != nil {
					return err
				}
			}
		}

	case kind == pankind.ServiceGroup:
		g := entity.NewServiceGroup(node)
		for _, member := range g.Members() {
			mk := m.resolveMemberKind(member, srcCtx, pankind.Service, pankind.ServiceGroup)
			if err := copyChild(mk, member); err != nil {
				return err
			}
		}

	case kind == pankind.SecurityProfileGrp:
		g := entity.NewSecurityProfileGroup(node)
		for profKind, profName := range g.Profiles() {
			if err := copyChild(profKind, profName); err != nil {
				return err
			}
		}

	case kind == pankind.CustomURLCategory:
		c := entity.NewCustomURLCategory(node)
		if c.Type() == "URL List" {
			for _, member := range c.Members() {
				if n, _, _ := m.graph().Resolve(refgraph.Query{Kind: pankind.ExternalList, Name: member, Context: srcCtx}); n != nil {
					if err := copyChild(pankind.ExternalList, member); err != nil {
						return err
					}
				}
			}
		}

	case kind.IsSecurityProfile():
		for _, appName := range customApplicationRefs(node) {
			if err := copyChild(pankind.Application, appName); err != nil {
				return err
			}
		}
		for _, catName := range customURLCategoryRefs(node) {
			if err := copyChild(pankind.CustomURLCategory, catName); err != nil {
				return err
			}
		}

	case kind.IsRule():
		rb := entity.NewRuleBase(node, kind)
		for _, addr := range append(append([]string{}, rb.Source()...), rb.Destination()...) {
			ak := m.resolveMemberKind(addr, srcCtx, pankind.Address, pankind.AddressGroup)
			if err := copyChild(ak, addr); err != nil {
				return err
			}
		}
		for _, svc := range rb.Service() {
			sk := m.resolveMemberKind(svc, srcCtx, pankind.Service, pankind.ServiceGroup)
			if err := copyChild(sk, svc); err != nil {
				return err
			}
		}
		for _, app := range rb.Application() {
			if n, _, _ := m.graph().Resolve(refgraph.Query{Kind: pankind.ApplicationGroup, Name: app, Context: srcCtx}); n != nil {
				if err := copyChild(pankind.ApplicationGroup, app); err != nil {
					return err
				}
			}
		}
		for _, tag := range rb.Tag() {
			if err := copyChild(pankind.Tag, tag); err != nil {
				return err
			}
		}
		if sched := rb.Schedule(); sched != "" {
			if err := copyChild(pankind.Schedule, sched); err != nil {
				return err
			}
		}
		for _, cat := range rb.Category() {
			if err := copyChild(pankind.CustomURLCategory, cat); err != nil {
				return err
			}
		}
		for _, grp := range rb.ProfileSettingGroup() {
			if err := copyChild(pankind.SecurityProfileGrp, grp); err != nil {
				return err
			}
		}
		for profKind, names := range rb.ProfileSettingProfiles() {
			for _, n := range names {
				if err := copyChild(profKind, n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// resolveMemberKind picks which of candidates a member name actually
// resolves to in ctx (or its ancestor chain), falling back to the first
// candidate so an unresolved/dangling member still gets a copy attempt
// rather than silently vanishing (mirrors internal/refgraph's own
// resolveMemberKind, which is unexported there).
func (m *Merger) resolveMemberKind(name string, ctx devtype.Context, candidates ...pankind.Kind) pankind.Kind {
	g := m.graph()
	for _, c := range candidates {
		if n, _, _ := g.Resolve(refgraph.Query{Kind: c, Name: name, Context: ctx}); n != nil {
			return c
		}
	}
	return candidates[0]
}

// customApplicationRefs finds the custom application names referenced
// from a security profile's application-exception list.
func customApplicationRefs(profile *xmltree.Node) []string {
	return entryNamesUnder(profile, "application-exception")
}

// customURLCategoryRefs finds the custom URL category names referenced
// from a URL-filtering profile's category list.
func customURLCategoryRefs(profile *xmltree.Node) []string {
	return entryNamesUnder(profile, "category")
}

// entryNamesUnder collects the distinct @name values of every <entry>
// child across every descendant of profile tagged wrapperTag.
func entryNamesUnder(profile *xmltree.Node, wrapperTag string) []string {
	wrappers, _ := xmltree.EvalRelative(profile, "//"+wrapperTag)
	var out []string
	seen := map[string]bool{}
	for _, w := range wrappers {
		for _, e := range w.ChildrenByTag("entry") {
			n := e.Name()
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

package refgraph

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// DependsOn returns every entity q's target directly references,
// resolved (where possible) to the context it was actually found in.
// Derivation is per kind.
func (g *Graph) DependsOn(q Query) ([]pankind.Key, error) {
	node, foundCtx, err := g.resolveInScope(q.Kind, q.Name, q.Context)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, notFoundErr(q.Kind, q.Name, q.Context)
	}

	switch q.Kind {
	case pankind.AddressGroup:
		return g.addressGroupDeps(node, foundCtx)
	case pankind.ServiceGroup:
		return g.serviceGroupDeps(node, foundCtx)
	case pankind.SecurityProfileGrp:
		return g.securityProfileGroupDeps(node)
	default:
		if q.Kind.IsRule() {
			return g.ruleDeps(node, q.Kind)
		}
		return nil, nil
	}
}

// resolveMemberKind tries each candidate kind's container in foundCtx's
// ancestor chain and returns the first one that has an entry named name.
// Falls back to the first candidate kind (unresolved) if none match, so
// a dangling reference still produces a Key rather than silently
// vanishing.
func (g *Graph) resolveMemberKind(name string, ctx devtype.Context, candidates ...pankind.Kind) pankind.Key {
	for _, candidate := range candidates {
		if n, _, _ := g.resolveInScope(candidate, name, ctx); n != nil {
			return pankind.Key{Kind: candidate, Name: name}
		}
	}
	return pankind.Key{Kind: candidates[0], Name: name}
}

func (g *Graph) addressGroupDeps(node *xmltree.Node, ctx devtype.Context) ([]pankind.Key, error) {
	group := entity.NewAddressGroup(node)
	var out []pankind.Key
	if group.IsStatic() {
		for _, m := range group.StaticMembers() {
			out = append(out, g.resolveMemberKind(m, ctx, pankind.Address, pankind.AddressGroup))
		}
	}
	if group.IsDynamic() {
		for _, tag := range TagsFromDynamicFilter(group.DynamicFilter()) {
			out = append(out, pankind.Key{Kind: pankind.Tag, Name: tag})
		}
	}
	return out, nil
}

func (g *Graph) serviceGroupDeps(node *xmltree.Node, ctx devtype.Context) ([]pankind.Key, error) {
	group := entity.NewServiceGroup(node)
	var out []pankind.Key
	for _, m := range group.Members() {
		out = append(out, g.resolveMemberKind(m, ctx, pankind.Service, pankind.ServiceGroup))
	}
	return out, nil
}

func (g *Graph) securityProfileGroupDeps(node *xmltree.Node) ([]pankind.Key, error) {
	spg := entity.NewSecurityProfileGroup(node)
	var out []pankind.Key
	for kind, name := range spg.Profiles() {
		out = append(out, pankind.Key{Kind: kind, Name: name})
	}
	return out, nil
}

func (g *Graph) ruleDeps(node *xmltree.Node, kind pankind.Kind) ([]pankind.Key, error) {
	rule := entity.NewRuleBase(node, kind)
	var out []pankind.Key

	addAll := func(kind pankind.Kind, names []string) {
		for _, n := range names {
			if n == "any" {
				continue
			}
			out = append(out, pankind.Key{Kind: kind, Name: n})
		}
	}

	addAll(pankind.Address, rule.Source())
	addAll(pankind.Address, rule.Destination())
	addAll(pankind.Service, rule.Service())
	addAll(pankind.Application, rule.Application())
	addAll(pankind.CustomURLCategory, rule.Category())
	addAll(pankind.Tag, rule.Tag())

	if sched := rule.Schedule(); sched != "" {
		out = append(out, pankind.Key{Kind: pankind.Schedule, Name: sched})
	}
	addAll(pankind.SecurityProfileGrp, rule.ProfileSettingGroup())
	for kind, names := range rule.ProfileSettingProfiles() {
		addAll(kind, names)
	}

	return out, nil
}

package refgraph

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// ReferencedBy returns every (kind, name) pair of an entity that refers
// to q's target, found by enumerating every context reachable from q's
// context and scanning each one's containers for the fixed per-kind
// reference-field set. An object in shared
// is reachable from every device group; an object in device-group D is
// reachable from D and every descendant device group.
func (g *Graph) ReferencedBy(q Query) ([]pankind.Key, error) {
	contexts, err := g.reachableContexts(q.Context)
	if err != nil {
		return nil, err
	}

	var out []pankind.Key
	for _, ctx := range contexts {
		referrers, err := g.scanContextForReferences(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, referrers...)
	}
	return out, nil
}

// reachableContexts returns every context from which an entity in ctx
// can legally be referenced.
func (g *Graph) reachableContexts(ctx devtype.Context) ([]devtype.Context, error) {
	if ctx.Kind == devtype.KindShared {
		groups, err := g.AllDeviceGroups()
		if err != nil {
			return nil, err
		}
		out := []devtype.Context{devtype.Shared()}
		for _, name := range groups {
			out = append(out, devtype.DeviceGroup(name))
		}
		return out, nil
	}

	if ctx.Kind == devtype.KindDeviceGroup {
		descendants, err := g.DescendantDeviceGroups(ctx.Name)
		if err != nil {
			return nil, err
		}
		out := []devtype.Context{ctx}
		for _, name := range descendants {
			out = append(out, devtype.DeviceGroup(name))
		}
		return out, nil
	}

	// vsys/template scopes are self-contained: nothing outside them can
	// reference an object defined inside them.
	return []devtype.Context{ctx}, nil
}

// scanContextForReferences looks at every object and rule container in
// ctx for something referencing q.Name as a q.Kind.
func (g *Graph) scanContextForReferences(ctx devtype.Context, q Query) ([]pankind.Key, error) {
	var out []pankind.Key

	appendIfReferences := func(referrerKind pankind.Kind, referrerName string, names []string) {
		if q.Kind != pankind.Address && q.Kind != pankind.AddressGroup && q.Kind != pankind.Service &&
			q.Kind != pankind.ServiceGroup && q.Kind != pankind.Application && q.Kind != pankind.Tag &&
			q.Kind != pankind.Schedule && q.Kind != pankind.CustomURLCategory && q.Kind != pankind.SecurityProfileGrp &&
			!q.Kind.IsSecurityProfile() {
			return
		}
		for _, n := range names {
			if n == q.Name {
				out = append(out, pankind.Key{Kind: referrerKind, Name: referrerName})
				return
			}
		}
	}

	// Address groups referencing an address or nested group.
	if container, err := g.resolveObjectContainer(pankind.AddressGroup, ctx); err == nil && container != nil {
		for _, entry := range container.ChildrenByTag("entry") {
			group := entity.NewAddressGroup(entry)
			if group.IsStatic() {
				appendIfReferences(pankind.AddressGroup, group.Name(), group.StaticMembers())
			}
			if group.IsDynamic() {
				appendIfReferences(pankind.AddressGroup, group.Name(), TagsFromDynamicFilter(group.DynamicFilter()))
			}
		}
	}

	// Service groups referencing a service or nested group.
	if container, err := g.resolveObjectContainer(pankind.ServiceGroup, ctx); err == nil && container != nil {
		for _, entry := range container.ChildrenByTag("entry") {
			group := entity.NewServiceGroup(entry)
			appendIfReferences(pankind.ServiceGroup, group.Name(), group.Members())
		}
	}

	// Security profile groups referencing individual profiles.
	if container, err := g.resolveObjectContainer(pankind.SecurityProfileGrp, ctx); err == nil && container != nil {
		for _, entry := range container.ChildrenByTag("entry") {
			spg := entity.NewSecurityProfileGroup(entry)
			for kind, name := range spg.Profiles() {
				if kind == q.Kind && name == q.Name {
					out = append(out, pankind.Key{Kind: pankind.SecurityProfileGrp, Name: spg.Name()})
				}
			}
		}
	}

	// Rules referencing objects via the fixed projection list.
	for _, ruleKind := range pankind.RuleKinds {
		for _, position := range rulebasePositions(g.DeviceType) {
			container, err := g.resolvePolicyContainer(ruleKind, ctx, position)
			if err != nil || container == nil {
				continue
			}
			for _, entry := range container.ChildrenByTag("entry") {
				rule := entity.NewRuleBase(entry, ruleKind)
				appendIfReferences(ruleKind, rule.Name(), rule.Source())
				appendIfReferences(ruleKind, rule.Name(), rule.Destination())
				appendIfReferences(ruleKind, rule.Name(), rule.Service())
				appendIfReferences(ruleKind, rule.Name(), rule.Application())
				appendIfReferences(ruleKind, rule.Name(), rule.Category())
				appendIfReferences(ruleKind, rule.Name(), rule.Tag())
				appendIfReferences(ruleKind, rule.Name(), rule.ProfileSettingGroup())
				if sched := rule.Schedule(); sched != "" && q.Kind == pankind.Schedule && sched == q.Name {
					out = append(out, pankind.Key{Kind: ruleKind, Name: rule.Name()})
				}
				for kind, names := range rule.ProfileSettingProfiles() {
					if kind == q.Kind {
						appendIfReferences(ruleKind, rule.Name(), names)
					}
				}
			}
		}
	}

	return out, nil
}

func rulebasePositions(deviceType devtype.DeviceType) []xpath.RulebasePosition {
	if deviceType == devtype.Panorama {
		return []xpath.RulebasePosition{xpath.RulebasePre, xpath.RulebasePost}
	}
	return []xpath.RulebasePosition{xpath.RulebaseNone}
}

func (g *Graph) resolvePolicyContainer(kind pankind.Kind, ctx devtype.Context, position xpath.RulebasePosition) (*xmltree.Node, error) {
	path, err := xpath.PolicyXPath(kind, g.DeviceType, ctx, g.Version, position, "")
	if err != nil {
		return nil, err
	}
	return xmltree.FindOne(g.Root, path)
}

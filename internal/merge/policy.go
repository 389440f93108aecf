package merge

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/versionadapt"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// Position names where a copied rule lands relative to its new
// siblings.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
)

// PolicyOptions extends Options with copy_policy's placement parameters.
type PolicyOptions struct {
	Options
	// Position selects top/bottom/before/after; before/after require
	// RefPolicyName and degrade to bottom with a logged warning if the
	// reference rule isn't found at the destination.
	Position Position
	// RefPolicyName names the sibling rule before/after resolves
	// against.
	RefPolicyName string
	// Rulebase pins the pre/post rulebase to copy into on Panorama; if
	// empty, the source rule's own rulebase is reused. Ignored on a
	// firewall.
	Rulebase xpath.RulebasePosition
}

// rulebasePositions lists the rulebase positions to probe for this
// Merger's device type: both pre/post on Panorama, just the flat
// rulebase on a firewall.
func (m *Merger) rulebasePositions() []xpath.RulebasePosition {
	if m.DeviceType == devtype.Panorama {
		return []xpath.RulebasePosition{xpath.RulebasePre, xpath.RulebasePost}
	}
	return []xpath.RulebasePosition{xpath.RulebaseNone}
}

// findPolicy resolves ruleKind/name in ctx, trying every rulebase
// position this device type supports, and reports which one matched.
func (m *Merger) findPolicy(ruleKind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, xpath.RulebasePosition, error) {
	for _, pos := range m.rulebasePositions() {
		path, err := xpath.PolicyXPath(ruleKind, m.DeviceType, ctx, m.Version, pos, name)
		if err != nil {
			return nil, "", err
		}
		n, err := xmltree.FindOne(m.Root, path)
		if err != nil {
			return nil, "", err
		}
		if n != nil {
			return n, pos, nil
		}
	}
	return nil, "", nil
}

// CopyPolicy copies one rule from srcCtx to dstCtx, placed per
// polOpts.Position, cascading the rule's references per polOpts.
func (m *Merger) CopyPolicy(ruleKind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, polOpts PolicyOptions) (bool, *Report, error) {
	report := &Report{}
	visited := map[visitKey]bool{}
	ok, err := m.copyPolicyInternal(ruleKind, name, srcCtx, dstCtx, polOpts, report, visited)
	return ok, report, err
}

// CopyPolicies batches CopyPolicy over names under one shared report and
// visited set.
func (m *Merger) CopyPolicies(ruleKind pankind.Kind, names []string, srcCtx, dstCtx devtype.Context, polOpts PolicyOptions) (*Report, error) {
	report := &Report{}
	visited := map[visitKey]bool{}
	for _, name := range names {
		if _, err := m.copyPolicyInternal(ruleKind, name, srcCtx, dstCtx, polOpts, report, visited); err != nil {
			return report, err
		}
	}
	return report, nil
}

// MergeAllPolicies copies every rule of every rule kind present in srcCtx
// into dstCtx, spanning both pre- and post-rulebase on Panorama, each
// landing at the bottom of its destination rulebase in source order.
func (m *Merger) MergeAllPolicies(srcCtx, dstCtx devtype.Context, opts Options) (*Report, error) {
	report := &Report{}
	visited := map[visitKey]bool{}
	for _, ruleKind := range pankind.RuleKinds {
		for _, pos := range m.rulebasePositions() {
			containerPath, err := xpath.PolicyXPath(ruleKind, m.DeviceType, srcCtx, m.Version, pos, "")
			if err != nil {
				continue
			}
			container, err := xmltree.FindOne(m.Root, containerPath)
			if err != nil {
				return report, err
			}
			if container == nil {
				continue
			}
			for _, entry := range container.ChildrenByTag("entry") {
				polOpts := PolicyOptions{Options: opts, Position: PositionBottom, Rulebase: pos}
				if _, err := m.copyPolicyInternal(ruleKind, entry.Name(), srcCtx, dstCtx, polOpts, report, visited); err != nil {
					return report, err
				}
			}
		}
	}
	return report, nil
}

// copyPolicyBestEffort is CopyObject's dependency-mode hook for a
// rule-kind entity, either the requested rule itself or a rule-kind
// reverse reference the caller opted in to: there is
// no natural top/bottom/before/after to infer, so the rule lands at the
// bottom of its own rulebase.
func (m *Merger) copyPolicyBestEffort(ruleKind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts Options, report *Report, visited map[visitKey]bool) (bool, error) {
	return m.copyPolicyInternal(ruleKind, name, srcCtx, dstCtx, PolicyOptions{Options: opts, Position: PositionBottom}, report, visited)
}

// copyPolicyInternal is the per-policy copy algorithm.
func (m *Merger) copyPolicyInternal(ruleKind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, polOpts PolicyOptions, report *Report, visited map[visitKey]bool) (bool, error) {
	opts := polOpts.Options

	if !ruleKind.IsRule() {
		report.recordSkipped(ruleKind, name, "not a rule kind")
		return false, nil
	}
	if strings.TrimSpace(name) == "" {
		report.recordSkipped(ruleKind, name, "empty name")
		return false, nil
	}
	if !srcCtx.ValidFor(m.DeviceType) || !dstCtx.ValidFor(m.DeviceType) {
		report.recordSkipped(ruleKind, name, "invalid context for device type "+m.DeviceType.String())
		return false, nil
	}

	// Step 1: resolve source rule.
	source, srcPos, err := m.findPolicy(ruleKind, name, srcCtx)
	if err != nil {
		return false, err
	}
	if source == nil {
		report.recordSkipped(ruleKind, name, "Not found in source")
		return false, nil
	}

	targetPos := polOpts.Rulebase
	if targetPos == "" {
		targetPos = srcPos
	}
	if m.DeviceType != devtype.Panorama {
		targetPos = xpath.RulebaseNone
	}

	// Step 2: resolve target slot; defer to the conflict resolver if occupied.
	entryPath, err := xpath.PolicyXPath(ruleKind, m.DeviceType, dstCtx, m.Version, targetPos, name)
	if err != nil {
		return false, err
	}
	existing, err := xmltree.FindOne(m.Root, entryPath)
	if err != nil {
		return false, err
	}

	var installed *xmltree.Node
	if existing != nil {
		decision, err := m.Resolver.Resolve(ruleKind, name, source, existing, opts.strategy(m.Resolver.Default))
		if err != nil {
			return false, err
		}
		if !decision.Proceed {
			report.recordSkipped(ruleKind, name, decision.Message)
			return false, nil
		}
		// A rename installs under a fresh name, so the occupant stays.
		if decision.NewName == "" {
			if err := xmltree.Delete(existing); err != nil {
				return false, err
			}
		}
		installed = decision.Replacement
	} else {
		installed = xmltree.CloneDeep(source)
	}

	containerPath, err := xpath.PolicyXPath(ruleKind, m.DeviceType, dstCtx, m.Version, targetPos, "")
	if err != nil {
		return false, err
	}
	container, err := xmltree.EnsureXPath(m.Root, containerPath)
	if err != nil {
		return false, err
	}

	// Step 3: version-adapt (rule-kind transitions are
	// catalog-driven via internal/versionadapt, same mechanism as for
	// objects),
	// then insert at the requested position.
	diags, err := versionadapt.Adapt(m.Catalog, installed, ruleKind, m.Version, versionadapt.Options{Tolerant: opts.Tolerant})
	if err != nil {
		report.recordSkipped(ruleKind, name, err.Error())
		return false, nil
	}
	for _, d := range diags {
		m.Logger.Warn("version adapter diagnostic", "detail", d.String())
	}

	m.insertAtPosition(container, installed, polOpts)
	m.invalidateCache()
	report.recordMerged(ruleKind, installed.Name())

	// Step 4/5: collect and copy references, extending to a fixed point
	// via the recursive cascade's own visited-set (cascadeReferences for
	// a group kind chases that group's own members in turn).
	if opts.CopyReferences {
		if err := m.cascadeReferences(ruleKind, source, srcCtx, dstCtx, opts, report, visited); err != nil {
			return true, err
		}
	}
	return true, nil
}

// insertAtPosition places installed into container per polOpts.Position,
// degrading before/after to bottom with a warning when RefPolicyName
// isn't found at the destination.
func (m *Merger) insertAtPosition(container, installed *xmltree.Node, polOpts PolicyOptions) {
	switch polOpts.Position {
	case PositionTop:
		container.InsertChildAt(installed, 0)
	case PositionBefore, PositionAfter:
		ref := container.ChildNamed("entry", polOpts.RefPolicyName)
		if ref == nil {
			m.Logger.Warn("copy_policy: ref_policy_name not found, degrading to bottom", "ref", polOpts.RefPolicyName)
			container.AppendChild(installed)
			return
		}
		idx := container.IndexOfChild(ref)
		if polOpts.Position == PositionAfter {
			idx++
		}
		container.InsertChildAt(installed, idx)
	default:
		container.AppendChild(installed)
	}
}

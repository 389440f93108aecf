package engine

import (
	"sort"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// UnusedObjects returns the name of every entry of kind defined directly
// in ctx that nothing in ctx's reachability scope references.
func (e *Engine) UnusedObjects(kind pankind.Kind, ctx devtype.Context) ([]string, error) {
	if kind.IsRule() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "%q is a rule kind, use RuleCoverage", kind)
	}
	entries, err := e.GetObjects(kind, ctx)
	if err != nil {
		return nil, err
	}

	g := e.graph()
	var out []string
	for _, entry := range entries {
		referrers, err := g.ReferencedBy(refgraph.Query{Kind: kind, Name: entry.Name(), Context: ctx})
		if err != nil {
			return nil, err
		}
		if len(referrers) == 0 {
			out = append(out, entry.Name())
		}
	}
	return out, nil
}

// DuplicateObjects returns the value-equivalence classes of kind in
// ctx without mutating anything - the same classes a Deduplicate dry
// run would propose, with encounter-order primaries.
func (e *Engine) DuplicateObjects(kind pankind.Kind, ctx devtype.Context) ([]DedupClass, error) {
	plan, err := e.Deduplicate(kind, ctx, DedupFirst, true)
	if err != nil {
		return nil, err
	}
	return plan.Classes, nil
}

// RuleCoverageEntry summarizes one (context, rule kind) rulebase.
type RuleCoverageEntry struct {
	Context  devtype.Context
	Kind     pankind.Kind
	Total    int
	Disabled int
	// AnyAny counts rules whose source and destination are both the
	// literal "any" - the broadest possible match, worth surfacing in a
	// coverage report regardless of kind.
	AnyAny int
}

// RuleCoverageReport aggregates RuleCoverageEntry rows over every
// context and rule kind in the tree.
type RuleCoverageReport struct {
	Entries  []RuleCoverageEntry
	Total    int
	Disabled int
}

// RuleCoverage walks every rulebase of every context (shared plus all
// device groups on Panorama, each vsys on a firewall) and counts total,
// disabled, and any-to-any rules per (context, kind).
func (e *Engine) RuleCoverage() (*RuleCoverageReport, error) {
	contexts, err := e.allContexts()
	if err != nil {
		return nil, err
	}

	report := &RuleCoverageReport{}
	for _, ctx := range contexts {
		for _, kind := range pankind.RuleKinds {
			entry := RuleCoverageEntry{Context: ctx, Kind: kind}
			for _, pos := range e.rulebasePositions() {
				path, err := xpath.PolicyXPath(kind, e.DeviceType, ctx, e.Version, pos, "")
				if err != nil {
					return nil, err
				}
				container, err := e.lookupOne(path)
				if err != nil {
					return nil, err
				}
				if container == nil {
					continue
				}
				for _, n := range container.ChildrenByTag("entry") {
					rule := entity.NewRuleBase(n, kind)
					entry.Total++
					if rule.Disabled() {
						entry.Disabled++
					}
					if isAny(rule.Source()) && isAny(rule.Destination()) {
						entry.AnyAny++
					}
				}
			}
			if entry.Total == 0 {
				continue
			}
			report.Entries = append(report.Entries, entry)
			report.Total += entry.Total
			report.Disabled += entry.Disabled
		}
	}
	return report, nil
}

func isAny(members []string) bool {
	return len(members) == 1 && members[0] == "any"
}

// ReferenceCheckResult reports whether a single name resolves and, in
// exhaustive mode, everything that refers to it.
type ReferenceCheckResult struct {
	Exists bool
	// FoundIn is the context the name actually resolved in (it may be an
	// ancestor of the queried context).
	FoundIn      devtype.Context
	ReferencedBy []pankind.Key
}

// ReferenceCheck resolves kind/name from ctx through its ancestor chain
// and lists every entity referencing it.
func (e *Engine) ReferenceCheck(kind pankind.Kind, name string, ctx devtype.Context) (*ReferenceCheckResult, error) {
	g := e.graph()
	node, foundIn, err := g.Resolve(refgraph.Query{Kind: kind, Name: name, Context: ctx})
	if err != nil {
		return nil, err
	}
	result := &ReferenceCheckResult{Exists: node != nil, FoundIn: foundIn}
	if node == nil {
		return result, nil
	}
	result.ReferencedBy, err = g.ReferencedBy(refgraph.Query{Kind: kind, Name: name, Context: foundIn})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HitClass buckets a rule by its externally-collected hit count.
type HitClass string

const (
	HitUnused     HitClass = "unused"
	HitRarelyUsed HitClass = "rarely_used"
	HitActive     HitClass = "active"
)

// HitCountEntry is one security rule's classification.
type HitCountEntry struct {
	Context devtype.Context
	Rule    string
	Hits    int
	Class   HitClass
}

// HitCountAnalysis classifies every security rule in the tree against
// the caller-supplied hit counts, keyed by rule name. A rule absent
// from hits counts as zero. Rules below threshold
// are rarely_used; a threshold of zero or less classifies every
// nonzero-hit rule as active. Output is ordered by context then rule
// name for deterministic reports.
func (e *Engine) HitCountAnalysis(hits map[string]int, threshold int) ([]HitCountEntry, error) {
	contexts, err := e.allContexts()
	if err != nil {
		return nil, err
	}

	var out []HitCountEntry
	for _, ctx := range contexts {
		for _, pos := range e.rulebasePositions() {
			path, err := xpath.PolicyXPath(pankind.RuleSecurity, e.DeviceType, ctx, e.Version, pos, "")
			if err != nil {
				return nil, err
			}
			container, err := e.lookupOne(path)
			if err != nil {
				return nil, err
			}
			if container == nil {
				continue
			}
			for _, n := range container.ChildrenByTag("entry") {
				name := n.Name()
				count := hits[name]
				out = append(out, HitCountEntry{
					Context: ctx,
					Rule:    name,
					Hits:    count,
					Class:   classifyHits(count, threshold),
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Context.String() != out[j].Context.String() {
			return out[i].Context.String() < out[j].Context.String()
		}
		return out[i].Rule < out[j].Rule
	})
	return out, nil
}

func classifyHits(count, threshold int) HitClass {
	switch {
	case count == 0:
		return HitUnused
	case threshold > 0 && count < threshold:
		return HitRarelyUsed
	default:
		return HitActive
	}
}

// allContexts enumerates every object-bearing context in the tree:
// shared plus every device group on Panorama, every vsys plus shared on
// a firewall.
func (e *Engine) allContexts() ([]devtype.Context, error) {
	out := []devtype.Context{devtype.Shared()}

	if e.DeviceType == devtype.Panorama {
		groups, err := e.graph().AllDeviceGroups()
		if err != nil {
			return nil, err
		}
		for _, name := range groups {
			out = append(out, devtype.DeviceGroup(name))
		}
		return out, nil
	}

	devices, err := xmltree.FindOne(e.Doc.Root, "/config/devices/entry")
	if err != nil {
		return nil, err
	}
	if devices == nil {
		return out, nil
	}
	vsys := devices.Child("vsys")
	if vsys == nil {
		return out, nil
	}
	for _, entry := range vsys.ChildrenByTag("entry") {
		out = append(out, devtype.Vsys(entry.Name()))
	}
	return out, nil
}

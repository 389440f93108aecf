// Package conflict decides what happens when a copy's target already
// exists: a strategy sum type with a single Resolve method returning a
// proceed/replacement Decision.
package conflict

import (
	"fmt"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Strategy names one of the conflict-resolution behaviors the resolver
// supports.
type Strategy string

const (
	Skip        Strategy = "skip"
	Overwrite   Strategy = "overwrite"
	KeepSource  Strategy = "keep_source"
	KeepTarget  Strategy = "keep_target"
	Merge       Strategy = "merge"
	Rename      Strategy = "rename"
	KeepNewer   Strategy = "keep_newer"
	Interactive Strategy = "interactive"
)

// IsValid reports whether s names a recognized strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case Skip, Overwrite, KeepSource, KeepTarget, Merge, Rename, KeepNewer, Interactive:
		return true
	default:
		return false
	}
}

// DefaultRenameSuffix is appended to a renamed copy's name when the
// caller does not override it.
const DefaultRenameSuffix = "_imported"

// Decision is the outcome of resolving one conflict: whether to proceed
// with the write, what element to install if so (nil means "install the
// cloned source unchanged"), and a human-readable message for the
// caller's skip/merge report.
type Decision struct {
	Proceed     bool
	Replacement *xmltree.Node
	// NewName is set only by Rename: the replacement must be installed
	// under this name rather than the original target slot, since
	// renaming sidesteps the conflict instead of resolving it at the
	// same name.
	NewName string
	Message string
}

// Resolver mediates every write that could overwrite an existing
// element. A caller may override the default strategy
// per call; otherwise Default applies.
type Resolver struct {
	Default      Strategy
	RenameSuffix string
	Logger       *log.Logger
}

// New builds a Resolver with the given engine-wide default strategy.
func New(def Strategy, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Noop()
	}
	return &Resolver{Default: def, Logger: logger}
}

// Resolve decides what to do about a name collision: kind/name identify
// the entity, source is the incoming element, target is the element
// already occupying that slot, and strategy (if empty) falls back to
// r.Default.
func (r *Resolver) Resolve(kind pankind.Kind, name string, source, target *xmltree.Node, strategy Strategy) (Decision, error) {
	if strategy == "" {
		strategy = r.Default
	}
	if !strategy.IsValid() {
		return Decision{}, engineerr.Newf(engineerr.InvalidArgument, "unknown conflict strategy %q", strategy)
	}

	switch strategy {
	case Skip:
		return Decision{Proceed: false, Message: "already exists"}, nil

	case Overwrite, KeepSource:
		return Decision{Proceed: true, Replacement: xmltree.CloneDeep(source), Message: "overwritten"}, nil

	case KeepTarget:
		return Decision{Proceed: false, Message: "kept existing target"}, nil

	case Merge:
		return Decision{Proceed: true, Replacement: mergeElements(kind, target, source), Message: "merged"}, nil

	case Rename:
		suffix := r.RenameSuffix
		if suffix == "" {
			suffix = DefaultRenameSuffix
		}
		renamed := xmltree.CloneDeep(source)
		newName := name + suffix
		renamed.SetAttr("name", newName)
		return Decision{Proceed: true, Replacement: renamed, NewName: newName, Message: fmt.Sprintf("renamed to %s", newName)}, nil

	case KeepNewer:
		tm, sm := lastModified(target), lastModified(source)
		if tm == "" || sm == "" {
			return r.Resolve(kind, name, source, target, Overwrite)
		}
		if sm > tm {
			return Decision{Proceed: true, Replacement: xmltree.CloneDeep(source), Message: "source is newer"}, nil
		}
		return Decision{Proceed: false, Message: "target is newer or equally recent"}, nil

	case Interactive:
		r.Logger.Warn("interactive conflict strategy is not implemented in the core engine; falling back to default",
			"kind", kind, "name", name, "default", r.Default)
		fallback := r.Default
		if fallback == Interactive || fallback == "" {
			fallback = Skip
		}
		return r.Resolve(kind, name, source, target, fallback)

	default:
		return Decision{}, engineerr.Newf(engineerr.InvalidArgument, "unhandled conflict strategy %q", strategy)
	}
}

// lastModified reads the "last-modified" leaf some PAN-OS objects and
// rules carry, in the sortable form PAN-OS itself writes it
// ("YYYY/MM/DD HH:MM:SS"), so lexicographic string comparison already
// orders it correctly.
func lastModified(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	return xmltree.TextOf(n.Child("last-modified"))
}

// mergeElements produces the merge-strategy replacement: a clone of
// target with source's data folded in, using the kind-specific union
// rules per kind, falling back to the generic xmltree.Merge
// contract for every kind with no special-cased behavior.
func mergeElements(kind pankind.Kind, target, source *xmltree.Node) *xmltree.Node {
	merged := xmltree.CloneDeep(target)
	switch kind {
	case pankind.AddressGroup:
		mergeAddressGroup(merged, source)
	case pankind.ServiceGroup:
		mergeServiceGroup(merged, source)
	case pankind.Tag:
		mergeTagFillEmpty(merged, source)
	default:
		_ = xmltree.Merge(merged, source, true)
	}
	return merged
}

func mergeAddressGroup(merged, source *xmltree.Node) {
	mg := entity.NewAddressGroup(merged)
	sg := entity.NewAddressGroup(source)
	switch {
	case mg.IsStatic() && sg.IsStatic():
		mg.SetStaticMembers(unionStrings(mg.StaticMembers(), sg.StaticMembers()))
	case mg.IsDynamic() && sg.IsDynamic():
		mg.SetDynamicFilter(combineDynamicFilters(mg.DynamicFilter(), sg.DynamicFilter()))
	default:
		_ = xmltree.Merge(merged, source, true)
	}
}

func mergeServiceGroup(merged, source *xmltree.Node) {
	mg := entity.NewServiceGroup(merged)
	sg := entity.NewServiceGroup(source)
	mg.SetMembers(unionStrings(mg.Members(), sg.Members()))
}

// combineDynamicFilters combines two dynamic address-group filters as
// "(target) and (source)", without attempting any redundant-term
// simplification of the combined expression.
func combineDynamicFilters(target, source string) string {
	if target == "" {
		return source
	}
	if source == "" {
		return target
	}
	return fmt.Sprintf("(%s) and (%s)", target, source)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, x := range append(append([]string{}, a...), b...) {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// mergeTagFillEmpty implements "tag color and comments filled only
// where target is empty".
func mergeTagFillEmpty(merged, source *xmltree.Node) {
	fillIfEmpty(merged, source, "color")
	fillIfEmpty(merged, source, "comments")
}

func fillIfEmpty(merged, source *xmltree.Node, tag string) {
	if mc := merged.Child(tag); mc != nil && strings.TrimSpace(mc.Text) != "" {
		return
	}
	sc := source.Child(tag)
	if sc == nil {
		return
	}
	mc := merged.Child(tag)
	if mc == nil {
		mc = xmltree.CreateChild(merged, tag, nil)
	}
	xmltree.SetText(mc, xmltree.TextOf(sc))
}

package merge

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/validate"
	"github.com/ancoleman/panflow-sub001/internal/versionadapt"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// CopyObject copies one
// object from srcCtx to dstCtx, cascading its tags and (if
// opts.CopyReferences) its kind-specific references, or - in
// opts.CopyWithDependencies mode - its dependency closure first.
func (m *Merger) CopyObject(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts Options) (bool, *Report, error) {
	report := &Report{}
	visited := map[visitKey]bool{}
	var ok bool
	var err error
	if opts.CopyWithDependencies {
		ok, err = m.copyObjectWithDependencies(kind, name, srcCtx, dstCtx, opts, report, visited)
	} else {
		ok, _, err = m.copyObjectInternal(kind, name, srcCtx, dstCtx, opts, report, visited)
	}
	return ok, report, err
}

// CopyObjects batches CopyObject over names, sharing one report and one
// visited set across the whole call so cross-item cascades don't
// duplicate work.
func (m *Merger) CopyObjects(kind pankind.Kind, names []string, srcCtx, dstCtx devtype.Context, opts Options) (*Report, error) {
	report := &Report{}
	visited := map[visitKey]bool{}
	for _, name := range names {
		var err error
		if opts.CopyWithDependencies {
			_, err = m.copyObjectWithDependencies(kind, name, srcCtx, dstCtx, opts, report, visited)
		} else {
			_, _, err = m.copyObjectInternal(kind, name, srcCtx, dstCtx, opts, report, visited)
		}
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// CopyObjectWithDependencies is CopyObject with opts.CopyWithDependencies
// forced on, for callers that want the dependency-mode contract without
// threading the flag through Options themselves.
func (m *Merger) CopyObjectWithDependencies(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts Options) (bool, *Report, error) {
	opts.CopyWithDependencies = true
	return m.CopyObject(kind, name, srcCtx, dstCtx, opts)
}

// MergeAllObjects copies every entry of kind present in srcCtx into
// dstCtx batch variants.
func (m *Merger) MergeAllObjects(kind pankind.Kind, srcCtx, dstCtx devtype.Context, opts Options) (*Report, error) {
	container, err := m.graph().ObjectContainer(kind, srcCtx)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return &Report{}, nil
	}
	names := make([]string, 0, len(container.Children))
	for _, entry := range container.ChildrenByTag("entry") {
		names = append(names, entry.Name())
	}
	return m.CopyObjects(kind, names, srcCtx, dstCtx, opts)
}

// copyObjectWithDependencies implements dependency mode:
// copy the depends_on closure depth-first with references off, then the
// requested entity itself, then (if opts.IncludeReferencedBy) its reverse
// references, filtering out rule-kind referrers unless opts.IncludePolicies.
func (m *Merger) copyObjectWithDependencies(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts Options, report *Report, visited map[visitKey]bool) (bool, error) {
	deps, err := m.graph().DependsOn(refgraph.Query{Kind: kind, Name: name, Context: srcCtx})
	if err != nil && !engineerr.Of(err, engineerr.NotFound) {
		return false, err
	}

	noRefs := opts
	noRefs.CopyReferences = false
	noRefs.CopyWithDependencies = false

	for len(deps) > 0 {
		dep := deps[len(deps)-1]
		deps = deps[:len(deps)-1]
		k := key(dep.Kind, dep.Name, dstCtx)
		if visited[k] {
			continue
		}
		visited[k] = true
		if _, _, err := m.copyObjectInternal(dep.Kind, dep.Name, srcCtx, dstCtx, noRefs, report, visited); err != nil {
			return false, err
		}
		more, err := m.graph().DependsOn(refgraph.Query{Kind: dep.Kind, Name: dep.Name, Context: srcCtx})
		if err != nil && !engineerr.Of(err, engineerr.NotFound) {
			return false, err
		}
		deps = append(deps, more...)
	}

	primary := opts
	primary.CopyWithDependencies = false
	var ok bool
	if kind.IsRule() {
		ok, err = m.copyPolicyBestEffort(kind, name, srcCtx, dstCtx, primary, report, visited)
	} else {
		ok, _, err = m.copyObjectInternal(kind, name, srcCtx, dstCtx, primary, report, visited)
	}
	if err != nil || !ok || !opts.IncludeReferencedBy {
		return ok, err
	}

	referrers, err := m.graph().ReferencedBy(refgraph.Query{Kind: kind, Name: name, Context: srcCtx})
	if err != nil {
		return ok, err
	}
	for _, r := range referrers {
		if r.Kind.IsRule() {
			if !opts.IncludePolicies {
				continue
			}
			k := key(r.Kind, r.Name, dstCtx)
			if visited[k] {
				continue
			}
			visited[k] = true
			if _, err := m.copyPolicyBestEffort(r.Kind, r.Name, srcCtx, dstCtx, noRefs, report, visited); err != nil {
				return ok, err
			}
			continue
		}
		k := key(r.Kind, r.Name, dstCtx)
		if visited[k] {
			continue
		}
		visited[k] = true
		if _, _, err := m.copyObjectInternal(r.Kind, r.Name, srcCtx, dstCtx, noRefs, report, visited); err != nil {
			return ok, err
		}
	}
	return ok, nil
}

// copyObjectInternal is the single-object copy algorithm.
func (m *Merger) copyObjectInternal(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts Options, report *Report, visited map[visitKey]bool) (bool, *xmltree.Node, error) {
	// Step 1: validate inputs.
	if kind == "" || strings.TrimSpace(name) == "" {
		report.recordSkipped(kind, name, "empty kind or name")
		return false, nil, nil
	}
	if !srcCtx.ValidFor(m.DeviceType) || !dstCtx.ValidFor(m.DeviceType) {
		report.recordSkipped(kind, name, "invalid context for device type "+m.DeviceType.String())
		return false, nil, nil
	}

	// Step 2: resolve source via the graph's scope-aware lookup.
	source, _, err := m.graph().Resolve(refgraph.Query{Kind: kind, Name: name, Context: srcCtx})
	if err != nil {
		return false, nil, err
	}
	if source == nil {
		report.recordSkipped(kind, name, "Not found in source")
		return false, nil, nil
	}

	// Step 3: validate, if requested.
	if opts.Validate {
		if ok, errs := validate.Node(kind, source); !ok {
			report.recordSkipped(kind, name, strings.Join(errs, "; "))
			return false, nil, nil
		}
	}

	// Step 4: resolve target slot; defer to the conflict resolver if occupied.
	entryPath, err := xpath.ObjectXPath(kind, m.DeviceType, dstCtx, m.Version, name)
	if err != nil {
		return false, nil, err
	}
	existing, err := xmltree.FindOne(m.Root, entryPath)
	if err != nil {
		return false, nil, err
	}

	installName := name
	var installed *xmltree.Node
	if existing != nil {
		decision, err := m.Resolver.Resolve(kind, name, source, existing, opts.strategy(m.Resolver.Default))
		if err != nil {
			return false, nil, err
		}
		if !decision.Proceed {
			report.recordSkipped(kind, name, decision.Message)
			return false, nil, nil
		}
		// A rename installs under a fresh name, so the occupant stays.
		if decision.NewName != "" {
			installName = decision.NewName
		} else if err := xmltree.Delete(existing); err != nil {
			return false, nil, err
		}
		installed = decision.Replacement
	} else {
		installed = xmltree.CloneDeep(source)
	}

	// Step 5: synthesize the destination's parent chain if absent.
	containerPath, err := xpath.ObjectXPath(kind, m.DeviceType, dstCtx, m.Version, "")
	if err != nil {
		return false, nil, err
	}
	container, err := xmltree.EnsureXPath(m.Root, containerPath)
	if err != nil {
		return false, nil, err
	}

	// Step 6: version-adapt the clone, then install it.
	diags, err := versionadapt.Adapt(m.Catalog, installed, kind, m.Version, versionadapt.Options{Tolerant: opts.Tolerant})
	if err != nil {
		report.recordSkipped(kind, name, err.Error())
		return false, nil, nil
	}
	for _, d := range diags {
		m.Logger.Warn("version adapter diagnostic", "detail", d.String())
	}

	container.AppendChild(installed)
	m.invalidateCache()
	report.recordMerged(kind, installName)

	// Step 7: tag cascade (always, references off for the tags themselves).
	tagOpts := opts
	tagOpts.CopyReferences = false
	tagOpts.CopyWithDependencies = false
	for _, tag := range (entity.ObjectView{Node: source}).Tags() {
		k := key(pankind.Tag, tag, dstCtx)
		if visited[k] {
			continue
		}
		visited[k] = true
		if _, _, err := m.copyObjectInternal(pankind.Tag, tag, srcCtx, dstCtx, tagOpts, report, visited); err != nil {
			return true, installed, err
		}
	}

	// Step 8: kind-specific reference cascade.
	if opts.CopyReferences {
		if err := m.cascadeReferences(kind, source, srcCtx, dstCtx, opts, report, visited); err != nil {
			return true, installed, err
		}
	}

	return true, installed, nil
}

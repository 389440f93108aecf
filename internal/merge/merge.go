// Package merge copies objects and rules between contexts of one
// configuration tree, with tag/reference cascades, conflict resolution,
// and version adaptation.
package merge

import (
	"github.com/ancoleman/panflow-sub001/internal/conflict"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Options bundles every object/policy copy parameter.
type Options struct {
	// SkipIfExists is the back-compat alias for the skip strategy: when
	// true and ConflictStrategy is unset, a conflict resolves to skip.
	SkipIfExists bool
	// CopyReferences enables the kind-specific reference cascade (the
	// tag cascade always runs regardless).
	CopyReferences bool
	// CopyWithDependencies switches CopyObject into dependency mode:
	// copy the depends_on closure first, depth-first, references off.
	CopyWithDependencies bool
	// IncludeReferencedBy, when CopyWithDependencies is set, also copies
	// the entity's reverse references after the entity itself.
	IncludeReferencedBy bool
	// IncludePolicies allows IncludeReferencedBy to copy policy-kind
	// referrers; by default those are filtered out.
	IncludePolicies bool
	// Validate runs the structural validator against the source element
	// before copying.
	Validate bool
	// ConflictStrategy overrides the resolver's engine-wide default for
	// this call.
	ConflictStrategy conflict.Strategy
	// Tolerant is passed through to the version adapter: a missing
	// required-in-target element becomes a warning instead of a failure.
	Tolerant bool
	// Position/RefPolicyName/Rulebase are policy-only fields; see
	// PolicyOptions.
}

func (o Options) strategy(def conflict.Strategy) conflict.Strategy {
	if o.ConflictStrategy != "" {
		return o.ConflictStrategy
	}
	if o.SkipIfExists {
		return conflict.Skip
	}
	return def
}

// SkipEntry records why one object or rule was not copied.
type SkipEntry struct {
	Kind   pankind.Kind
	Name   string
	Reason string
}

// Report accumulates the outcome of a (possibly cascading or batch) copy
// operation; partial failure never rolls back prior successes.
type Report struct {
	Merged  []pankind.Key
	Skipped []SkipEntry
}

func (r *Report) recordMerged(kind pankind.Kind, name string) {
	r.Merged = append(r.Merged, pankind.Key{Kind: kind, Name: name})
}

func (r *Report) recordSkipped(kind pankind.Kind, name, reason string) {
	r.Skipped = append(r.Skipped, SkipEntry{Kind: kind, Name: name, Reason: reason})
}

// Merger is the engine-facing entry point for object and policy
// copies. It operates on one
// in-memory configuration tree; a copy's source and destination name
// two contexts within that same tree.
type Merger struct {
	Root       *xmltree.Node
	RootID     int64 // cache identity; 0 if Cache is nil
	DeviceType devtype.DeviceType
	Version    panver.Version
	Catalog    pankind.Catalog
	Resolver   *conflict.Resolver
	Cache      *xmltree.Cache // optional; invalidated wholesale after every mutation
	Logger     *log.Logger
}

// New builds a Merger over root. cache may be nil, in which case lookups
// bypass memoization entirely.
func New(root *xmltree.Node, rootID int64, deviceType devtype.DeviceType, version panver.Version, catalog pankind.Catalog, resolver *conflict.Resolver, cache *xmltree.Cache, logger *log.Logger) *Merger {
	if logger == nil {
		logger = log.Noop()
	}
	return &Merger{Root: root, RootID: rootID, DeviceType: deviceType, Version: version, Catalog: catalog, Resolver: resolver, Cache: cache, Logger: logger}
}

func (m *Merger) graph() *refgraph.Graph {
	return refgraph.New(m.Root, m.DeviceType, m.Version)
}

// invalidateCache drops every cached lookup for this tree
func (m *Merger) invalidateCache() {
	if m.Cache != nil {
		m.Cache.Invalidate(m.RootID)
	}
}

// visitKey namespaces a cascade's visited-set by destination context as
// well as (kind, name). Every cascade of one top-level call copies into
// that call's single destination context, so within a call the key acts
// as a (kind, name) cycle guard.
type visitKey struct {
	kind pankind.Kind
	name string
	ctx  devtype.Context
}

func key(kind pankind.Kind, name string, ctx devtype.Context) visitKey {
	return visitKey{kind: kind, name: name, ctx: ctx}
}

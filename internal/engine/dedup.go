package engine

import (
	"github.com/ancoleman/panflow-sub001/internal/dedup"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// DedupStrategy re-exports internal/dedup.Strategy.
type DedupStrategy = dedup.Strategy

const (
	DedupFirst        = dedup.First
	DedupShortest     = dedup.Shortest
	DedupLongest      = dedup.Longest
	DedupAlphabetical = dedup.Alphabetical
)

// DedupPlan re-exports internal/dedup.Plan.
type DedupPlan = dedup.Plan

// DedupClass re-exports internal/dedup.Class.
type DedupClass = dedup.Class

// Deduplicate computes the duplicate-collapsing plan for kind in ctx
// using strategy, and applies it unless dryRun is set.
func (e *Engine) Deduplicate(kind pankind.Kind, ctx devtype.Context, strategy DedupStrategy, dryRun bool) (*DedupPlan, error) {
	path, err := e.objectContainerXPath(kind, ctx)
	if err != nil {
		return nil, err
	}
	container, err := e.lookupOne(path)
	if err != nil {
		return nil, err
	}

	d := e.deduplicator()
	plan, err := d.Plan(container, kind, strategy)
	if err != nil {
		return nil, err
	}
	if dryRun || container == nil {
		return plan, nil
	}
	if err := d.Apply(container, ctx, e.Version, plan); err != nil {
		return plan, err
	}
	e.invalidateCache()
	return plan, nil
}

// objectContainerXPath resolves kind's container in ctx, reusing
// ObjectXPath with an empty name.
func (e *Engine) objectContainerXPath(kind pankind.Kind, ctx devtype.Context) (string, error) {
	return xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, "")
}

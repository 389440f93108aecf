package engine

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/merge"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
)

// Report re-exports internal/merge's Report/SkipEntry so engine callers
// never need to import internal/merge directly flat
// facade surface.
type Report = merge.Report

// SkipEntry is one object or rule merge_object/merge_all declined to
// copy, with its reason.
type SkipEntry = merge.SkipEntry

// MergeOptions re-exports internal/merge.Options.
type MergeOptions = merge.Options

// MergePolicyOptions re-exports internal/merge.PolicyOptions.
type MergePolicyOptions = merge.PolicyOptions

// MergeObject copies a single object of kind named name from srcCtx to
// dstCtx, cascading tags and (per opts) references.
func (e *Engine) MergeObject(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts MergeOptions) (bool, *Report, error) {
	copied, report, err := e.merger().CopyObject(kind, name, srcCtx, dstCtx, opts)
	if err == nil {
		e.invalidateCache()
	}
	return copied, report, err
}

// MergeObjectWithDependencies copies name and its depends_on closure
// (and, per opts.IncludeReferencedBy, its reverse references) from
// srcCtx to dstCtx.
func (e *Engine) MergeObjectWithDependencies(kind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, opts MergeOptions) (bool, *Report, error) {
	copied, report, err := e.merger().CopyObjectWithDependencies(kind, name, srcCtx, dstCtx, opts)
	if err == nil {
		e.invalidateCache()
	}
	return copied, report, err
}

// MergeObjects copies every named object of kind from srcCtx to dstCtx,
// accumulating a single Report across the whole batch.
func (e *Engine) MergeObjects(kind pankind.Kind, names []string, srcCtx, dstCtx devtype.Context, opts MergeOptions) (*Report, error) {
	report, err := e.merger().CopyObjects(kind, names, srcCtx, dstCtx, opts)
	if err == nil {
		e.invalidateCache()
	}
	return report, err
}

// MergeAllObjects copies every entry of kind defined directly in srcCtx
// into dstCtx.
func (e *Engine) MergeAllObjects(kind pankind.Kind, srcCtx, dstCtx devtype.Context, opts MergeOptions) (*Report, error) {
	report, err := e.merger().MergeAllObjects(kind, srcCtx, dstCtx, opts)
	if err == nil {
		e.invalidateCache()
	}
	return report, err
}

// MergePolicy copies a single rule of ruleKind named name from srcCtx to
// dstCtx, placed per polOpts.Position.
func (e *Engine) MergePolicy(ruleKind pankind.Kind, name string, srcCtx, dstCtx devtype.Context, polOpts MergePolicyOptions) (bool, *Report, error) {
	copied, report, err := e.merger().CopyPolicy(ruleKind, name, srcCtx, dstCtx, polOpts)
	if err == nil {
		e.invalidateCache()
	}
	return copied, report, err
}

// MergePolicies copies every named rule of ruleKind from srcCtx to
// dstCtx in the given order, each placed by the same polOpts.Position
// (and reference rule) on its own, not relative to the prior copy: bottom
// and before keep names's order at the destination, top and after
// reverse it.
func (e *Engine) MergePolicies(ruleKind pankind.Kind, names []string, srcCtx, dstCtx devtype.Context, polOpts MergePolicyOptions) (*Report, error) {
	report, err := e.merger().CopyPolicies(ruleKind, names, srcCtx, dstCtx, polOpts)
	if err == nil {
		e.invalidateCache()
	}
	return report, err
}

// MergeAllPolicies copies every rule kind's rulebase wholesale from
// srcCtx to dstCtx, preserving each rulebase's relative order.
func (e *Engine) MergeAllPolicies(srcCtx, dstCtx devtype.Context, opts MergeOptions) (*Report, error) {
	report, err := e.merger().MergeAllPolicies(srcCtx, dstCtx, opts)
	if err == nil {
		e.invalidateCache()
	}
	return report, err
}

// objectKinds lists every non-rule entity kind, in the
// order merge_all copies them: plain objects first, then the eight
// security-profile kinds security_profile_group may reference.
var objectKinds = append([]pankind.Kind{
	pankind.Address, pankind.AddressGroup, pankind.Service, pankind.ServiceGroup,
	pankind.Application, pankind.ApplicationGroup, pankind.Tag, pankind.Schedule,
	pankind.CustomURLCategory, pankind.ExternalList, pankind.Region,
	pankind.DynamicUserGroup, pankind.SecurityProfileGrp,
}, pankind.SecurityProfileKinds...)

// MergeAll runs MergeAllObjects for every object kind
// followed by MergeAllPolicies, accumulating one combined Report.
func (e *Engine) MergeAll(srcCtx, dstCtx devtype.Context, opts MergeOptions) (*Report, error) {
	combined := &Report{}
	for _, kind := range objectKinds {
		r, err := e.merger().MergeAllObjects(kind, srcCtx, dstCtx, opts)
		if err != nil {
			return combined, err
		}
		combined.Merged = append(combined.Merged, r.Merged...)
		combined.Skipped = append(combined.Skipped, r.Skipped...)
	}
	r, err := e.merger().MergeAllPolicies(srcCtx, dstCtx, opts)
	if err != nil {
		return combined, err
	}
	combined.Merged = append(combined.Merged, r.Merged...)
	combined.Skipped = append(combined.Skipped, r.Skipped...)
	e.invalidateCache()
	return combined, nil
}

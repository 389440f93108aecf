package engine

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/natsplit"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// NATSplitOptions re-exports internal/natsplit.Options.
type NATSplitOptions = natsplit.Options

// NATSplitResult re-exports internal/natsplit.Result.
type NATSplitResult = natsplit.Result

// SplitBidirectionalNAT decomposes the named bi-directional NAT rule in
// ctx into an explicit reverse rule, inserted as its next sibling.
func (e *Engine) SplitBidirectionalNAT(name string, ctx devtype.Context, opts NATSplitOptions) (*xmltree.Node, error) {
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	rule, _, err := e.findPolicy(pankind.RuleNAT, name, ctx)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, engineerr.Newf(engineerr.NotFound, "nat rule %q not found in %s", name, ctx.String())
	}
	reverse, err := natsplit.Split(rule, opts)
	if err != nil {
		return nil, err
	}
	e.invalidateCache()
	return reverse, nil
}

// SplitAllBidirectionalNAT splits every bi-directional NAT rule in ctx
// whose name contains nameFilter (empty matches all).
func (e *Engine) SplitAllBidirectionalNAT(ctx devtype.Context, nameFilter string, opts NATSplitOptions) (NATSplitResult, error) {
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	var combined NATSplitResult
	for _, pos := range e.rulebasePositions() {
		path, err := xpath.PolicyXPath(pankind.RuleNAT, e.DeviceType, ctx, e.Version, pos, "")
		if err != nil {
			return combined, err
		}
		container, err := e.lookupOne(path)
		if err != nil {
			return combined, err
		}
		if container == nil {
			continue
		}
		result, err := natsplit.SplitAll(container, pankind.RuleNAT, nameFilter, opts)
		if err != nil {
			return combined, err
		}
		combined.Processed += result.Processed
		combined.Succeeded += result.Succeeded
		combined.Failed += result.Failed
		combined.Details = append(combined.Details, result.Details...)
	}
	e.invalidateCache()
	return combined, nil
}

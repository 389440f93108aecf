package engine

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/merge"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// Position re-exports internal/merge's placement enum for callers of
// MovePolicy/ClonePolicy, so engine consumers never need to import
// internal/merge directly.
type Position = merge.Position

const (
	PositionTop    = merge.PositionTop
	PositionBottom = merge.PositionBottom
	PositionBefore = merge.PositionBefore
	PositionAfter  = merge.PositionAfter
)

// rulebasePositions lists the rulebase positions to probe for this
// Engine's device type: both pre/post on Panorama, just the flat
// rulebase on a firewall.
func (e *Engine) rulebasePositions() []xpath.RulebasePosition {
	if e.DeviceType == devtype.Panorama {
		return []xpath.RulebasePosition{xpath.RulebasePre, xpath.RulebasePost}
	}
	return []xpath.RulebasePosition{xpath.RulebaseNone}
}

// findPolicy resolves ruleKind/name in ctx, trying every rulebase
// position this device type supports, and reports which one matched.
func (e *Engine) findPolicy(ruleKind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, xpath.RulebasePosition, error) {
	for _, pos := range e.rulebasePositions() {
		path, err := xpath.PolicyXPath(ruleKind, e.DeviceType, ctx, e.Version, pos, name)
		if err != nil {
			return nil, "", err
		}
		n, err := e.lookupOne(path)
		if err != nil {
			return nil, "", err
		}
		if n != nil {
			return n, pos, nil
		}
	}
	return nil, "", nil
}

// GetPolicies returns every rule of ruleKind defined in ctx, spanning
// both pre- and post-rulebase on Panorama, in document order within each
// rulebase (pre-rulebase entries first).
func (e *Engine) GetPolicies(ruleKind pankind.Kind, ctx devtype.Context) ([]*xmltree.Node, error) {
	if !ruleKind.IsRule() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "%q is not a rule kind, use GetObjects", ruleKind)
	}
	var out []*xmltree.Node
	for _, pos := range e.rulebasePositions() {
		path, err := xpath.PolicyXPath(ruleKind, e.DeviceType, ctx, e.Version, pos, "")
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
		out = append(out, container.ChildrenByTag("entry")...)
	}
	return out, nil
}

// GetPolicy returns the single rule named name, trying every rulebase
// position this device type supports.
func (e *Engine) GetPolicy(ruleKind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, error) {
	n, _, err := e.findPolicy(ruleKind, name, ctx)
	return n, err
}

// AddPolicy installs the detached rule el at the bottom of ruleKind's
// rulebase in ctx (use MovePolicy afterward for any other placement).
// On Panorama, rulebase selects pre or post; it is ignored on a
// firewall.
func (e *Engine) AddPolicy(ruleKind pankind.Kind, ctx devtype.Context, rulebase xpath.RulebasePosition, el *xmltree.Node) error {
	if !ruleKind.IsRule() {
		return engineerr.Newf(engineerr.InvalidArgument, "%q is not a rule kind, use AddObject", ruleKind)
	}
	if el == nil || strings.TrimSpace(el.Name()) == "" {
		return engineerr.New(engineerr.InvalidArgument, "add_policy: element must carry a non-empty @name")
	}
	if el.Parent != nil {
		return engineerr.New(engineerr.Internal, "add_policy: element is already attached to a tree")
	}
	if e.DeviceType != devtype.Panorama {
		rulebase = xpath.RulebaseNone
	}

	existing, _, err := e.findPolicy(ruleKind, el.Name(), ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return engineerr.Newf(engineerr.Conflict, "%s %q already exists in %s", ruleKind, el.Name(), ctx.String())
	}

	containerPath, err := xpath.PolicyXPath(ruleKind, e.DeviceType, ctx, e.Version, rulebase, "")
	if err != nil {
		return err
	}
	container, err := xmltree.EnsureXPath(e.Doc.Root, containerPath)
	if err != nil {
		return err
	}
	container.AppendChild(el)
	e.invalidateCache()
	return nil
}

// UpdatePolicy resolves ruleKind/name in ctx and runs mutate against its
// live entry.
func (e *Engine) UpdatePolicy(ruleKind pankind.Kind, name string, ctx devtype.Context, mutate func(*xmltree.Node) error) error {
	entry, _, err := e.findPolicy(ruleKind, name, ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", ruleKind, name, ctx.String())
	}
	if err := mutate(entry); err != nil {
		return err
	}
	e.invalidateCache()
	return nil
}

// DeletePolicy removes the named rule from ctx.
func (e *Engine) DeletePolicy(ruleKind pankind.Kind, name string, ctx devtype.Context) error {
	entry, _, err := e.findPolicy(ruleKind, name, ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", ruleKind, name, ctx.String())
	}
	if err := xmltree.Delete(entry); err != nil {
		return err
	}
	e.invalidateCache()
	return nil
}

// MovePolicy repositions the named rule within its own rulebase relative
// to its siblings. before/after require refName; a missing reference
// degrades to bottom with a logged warning, mirroring copy_policy's
// placement semantics.
func (e *Engine) MovePolicy(ruleKind pankind.Kind, name string, ctx devtype.Context, where Position, refName string) error {
	entry, pos, err := e.findPolicy(ruleKind, name, ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", ruleKind, name, ctx.String())
	}
	container := entry.Parent
	if container == nil {
		return engineerr.New(engineerr.Internal, "move_policy: rule has no parent container")
	}
	container.RemoveChild(entry)

	insertAtPosition(container, entry, where, refName, ruleKind, name, e.Logger)
	_ = pos
	e.invalidateCache()
	return nil
}

// ClonePolicy duplicates the named rule under newName, inserted
// immediately after the original, within the same rulebase.
func (e *Engine) ClonePolicy(ruleKind pankind.Kind, name, newName string, ctx devtype.Context) (*xmltree.Node, error) {
	entry, _, err := e.findPolicy(ruleKind, name, ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", ruleKind, name, ctx.String())
	}
	if strings.TrimSpace(newName) == "" {
		return nil, engineerr.New(engineerr.InvalidArgument, "clone_policy: new name must not be empty")
	}

	existing, _, err := e.findPolicy(ruleKind, newName, ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, engineerr.Newf(engineerr.Conflict, "%s %q already exists in %s", ruleKind, newName, ctx.String())
	}

	clone := xmltree.CloneDeep(entry)
	clone.SetAttr("name", newName)
	idx := entry.Parent.IndexOfChild(entry)
	entry.Parent.InsertChildAt(clone, idx+1)
	e.invalidateCache()
	return clone, nil
}

// insertAtPosition implements the top/bottom/before/after placement
// shared by MovePolicy and, conceptually, copy_policy:
// before/after search container's existing children for refName and
// degrade to bottom (with a logged warning) when it cannot be found.
func insertAtPosition(container, entry *xmltree.Node, where Position, refName string, ruleKind pankind.Kind, name string, logger *log.Logger) {
	switch where {
	case merge.PositionTop:
		container.InsertChildAt(entry, 0)
		return
	case merge.PositionBefore, merge.PositionAfter:
		ref := container.ChildNamed("entry", refName)
		if ref == nil {
			logger.Warn("move_policy: reference rule not found, degrading to bottom",
				"kind", ruleKind, "name", name, "ref", refName, "where", where)
			container.AppendChild(entry)
			return
		}
		idx := container.IndexOfChild(ref)
		if where == merge.PositionAfter {
			idx++
		}
		container.InsertChildAt(entry, idx)
		return
	default:
		container.AppendChild(entry)
	}
}

package engine

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/criteria"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/validate"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// GetObjects returns every entry of kind defined directly in ctx (no
// ancestor-chain resolution; use internal/refgraph.Graph.Resolve for
// reachability-aware single-entity lookup).
func (e *Engine) GetObjects(kind pankind.Kind, ctx devtype.Context) ([]*xmltree.Node, error) {
	if kind.IsRule() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "%q is a rule kind, use GetPolicies", kind)
	}
	path, err := xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, "")
	if err != nil {
		return nil, err
	}
	container, err := e.lookupOne(path)
	if err != nil || container == nil {
		return nil, err
	}
	return container.ChildrenByTag("entry"), nil
}

// GetObject returns the single entry named name of kind in ctx, or nil
// if absent (not an error; NotFound is reserved for callers that need
// a hard failure).
func (e *Engine) GetObject(kind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, error) {
	if kind.IsRule() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "%q is a rule kind, use GetPolicies", kind)
	}
	path, err := xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, name)
	if err != nil {
		return nil, err
	}
	return e.lookupOne(path)
}

// FilterObjects returns every entry of kind in ctx matching crit.
func (e *Engine) FilterObjects(kind pankind.Kind, ctx devtype.Context, crit criteria.Criteria) ([]*xmltree.Node, error) {
	path, err := xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, "")
	if err != nil {
		return nil, err
	}
	container, err := e.lookupOne(path)
	if err != nil {
		return nil, err
	}
	return criteria.Filter(container, crit)
}

// AddObject installs the detached element el as a new entry of kind in
// ctx. el must carry the @name attribute to install under and must not
// already be attached to another tree. Returns Conflict if an entry of that name already exists.
func (e *Engine) AddObject(kind pankind.Kind, ctx devtype.Context, el *xmltree.Node) error {
	if kind.IsRule() {
		return engineerr.Newf(engineerr.InvalidArgument, "%q is a rule kind, use AddPolicy", kind)
	}
	if el == nil || strings.TrimSpace(el.Name()) == "" {
		return engineerr.New(engineerr.InvalidArgument, "add_object: element must carry a non-empty @name")
	}
	if el.Parent != nil {
		return engineerr.New(engineerr.Internal, "add_object: element is already attached to a tree")
	}
	if !ctx.ValidFor(e.DeviceType) {
		return engineerr.Newf(engineerr.InvalidContext, "context %s is not valid for device type %s", ctx.String(), e.DeviceType.String())
	}

	name := el.Name()
	existingPath, err := xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, name)
	if err != nil {
		return err
	}
	existing, err := xmltree.FindOne(e.Doc.Root, existingPath)
	if err != nil {
		return err
	}
	if existing != nil {
		return engineerr.Newf(engineerr.Conflict, "%s %q already exists in %s", kind, name, ctx.String())
	}

	containerPath, err := xpath.ObjectXPath(kind, e.DeviceType, ctx, e.Version, "")
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

// UpdateObject resolves name/kind/ctx to its live entry and runs mutate
// against it; mutate is expected to use internal/entity's typed views to
// make its edits. Returns NotFound if the entry does not exist.
func (e *Engine) UpdateObject(kind pankind.Kind, name string, ctx devtype.Context, mutate func(*xmltree.Node) error) error {
	entry, err := e.GetObject(kind, name, ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", kind, name, ctx.String())
	}
	if err := mutate(entry); err != nil {
		return err
	}
	e.invalidateCache()
	return nil
}

// DeleteObject removes the named entry from ctx. Returns NotFound if it
// does not exist.
func (e *Engine) DeleteObject(kind pankind.Kind, name string, ctx devtype.Context) error {
	entry, err := e.GetObject(kind, name, ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", kind, name, ctx.String())
	}
	if err := xmltree.Delete(entry); err != nil {
		return err
	}
	e.invalidateCache()
	return nil
}

// ValidateObject runs the structural check against the named entry,
//(never mutates).
func (e *Engine) ValidateObject(kind pankind.Kind, name string, ctx devtype.Context) (bool, []string, error) {
	entry, err := e.GetObject(kind, name, ctx)
	if err != nil {
		return false, nil, err
	}
	if entry == nil {
		return false, nil, engineerr.Newf(engineerr.NotFound, "%s %q not found in %s", kind, name, ctx.String())
	}
	ok, errs := validate.Node(kind, entry)
	return ok, errs, nil
}

// Package refgraph is the Reference Graph: given a
// (kind, name, context), it answers "what does this depend on" and "what
// refers to this", lazily walking the live tree rather than maintaining a
// separate pointer graph.
package refgraph

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/ancoleman/panflow-sub001/internal/xpath"
)

// Graph answers reference queries against one configuration tree.
type Graph struct {
	Root       *xmltree.Node
	DeviceType devtype.DeviceType
	Version    panver.Version
}

// New builds a Graph over root for the given device type and version.
func New(root *xmltree.Node, deviceType devtype.DeviceType, version panver.Version) *Graph {
	return &Graph{Root: root, DeviceType: deviceType, Version: version}
}

// Query names a single entity instance within a context.
type Query struct {
	Kind    pankind.Kind
	Name    string
	Context devtype.Context
}

// resolveObjectContainer finds the live container node for an object
// kind in a context, or nil if the context's container doesn't exist yet
// (an empty/absent container is not an error - it simply has no
// entries).
func (g *Graph) resolveObjectContainer(kind pankind.Kind, ctx devtype.Context) (*xmltree.Node, error) {
	path, err := xpath.ObjectXPath(kind, g.DeviceType, ctx, g.Version, "")
	if err != nil {
		return nil, err
	}
	return xmltree.FindOne(g.Root, path)
}

func (g *Graph) resolveObjectEntry(kind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, error) {
	if kind.IsRule() {
		for _, position := range rulebasePositions(g.DeviceType) {
			path, err := xpath.PolicyXPath(kind, g.DeviceType, ctx, g.Version, position, name)
			if err != nil {
				return nil, err
			}
			if n, err := xmltree.FindOne(g.Root, path); err != nil || n != nil {
				return n, err
			}
		}
		return nil, nil
	}
	path, err := xpath.ObjectXPath(kind, g.DeviceType, ctx, g.Version, name)
	if err != nil {
		return nil, err
	}
	return xmltree.FindOne(g.Root, path)
}

// resolveInScope looks up (kind, name) first in ctx, then walking up
// ctx's ancestor chain (parent device groups, then shared). It returns
// the resolved node and the context it was actually found in.
func (g *Graph) resolveInScope(kind pankind.Kind, name string, ctx devtype.Context) (*xmltree.Node, devtype.Context, error) {
	for _, candidate := range g.AncestorChain(ctx) {
		n, err := g.resolveObjectEntry(kind, name, candidate)
		if err != nil {
			return nil, devtype.Context{}, err
		}
		if n != nil {
			return n, candidate, nil
		}
	}
	return nil, devtype.Context{}, nil
}

// notFoundErr builds the standard NotFound error for a query that
// resolved to nothing.
func notFoundErr(kind pankind.Kind, name string, ctx devtype.Context) error {
	return engineerr.Newf(engineerr.NotFound, "%s %q not found in or above %s", kind, name, ctx.String())
}

// Resolve looks up q in q.Context and, if absent there, walks q.Context's
// ancestor chain (parent device groups, then shared). It returns the
// resolved node and the context it was
// actually found in, or a nil node with no error if nothing matched
// anywhere in the chain. Exported for the merger's reference cascades,
// which
// need the same scope-aware lookup DependsOn uses internally.
func (g *Graph) Resolve(q Query) (*xmltree.Node, devtype.Context, error) {
	return g.resolveInScope(q.Kind, q.Name, q.Context)
}

// ObjectContainer returns the live container node for an object kind in a
// context, or nil if the container doesn't exist yet. Exported for the
// merger,
// which need to enumerate or probe a container before deciding whether to
// synthesize it.
func (g *Graph) ObjectContainer(kind pankind.Kind, ctx devtype.Context) (*xmltree.Node, error) {
	return g.resolveObjectContainer(kind, ctx)
}

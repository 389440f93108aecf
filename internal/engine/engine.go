// Package engine is the public façade of the library: it constructs one
// transformation engine over a single parsed configuration tree and
// exposes the narrow set of methods an external CLI, report renderer, or
// test harness drives (object/policy CRUD, merge, dedup, NAT split, and
// reports), delegating every call to the lower-layer packages that do
// the actual work.
package engine

import (
	"time"

	"github.com/ancoleman/panflow-sub001/internal/conflict"
	"github.com/ancoleman/panflow-sub001/internal/dedup"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/merge"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// defaultVersion is used when neither the caller nor the tree's own
// "version" attribute supplies one - the newest version the resolver's
// template table knows fallback rule "else to the
// newest known".
var defaultVersion = panver.MustParse("11.0")

// Options configures Engine construction.
type Options struct {
	// DeviceType, if valid, is used as-is; otherwise it is inferred via
	// internal/devtype.Infer.
	DeviceType devtype.DeviceType
	// Version, if non-zero, is used as-is; otherwise the root element's
	// own "version" attribute is consulted, falling back to the newest
	// known version.
	Version panver.Version
	// HostnameHint is passed through to devtype.Infer as its small
	// additional weight.
	HostnameHint string
	// ConflictStrategy is the engine-wide default conflict strategy;
	// defaults to Skip.
	ConflictStrategy conflict.Strategy
	// RenameSuffix overrides the Rename strategy's default suffix.
	RenameSuffix string
	// CacheCapacity/CacheTTL configure the XPath LRU cache; a zero
	// CacheCapacity disables the cache entirely (every lookup bypasses
	// memoization).
	CacheCapacity int
	CacheTTL      time.Duration
	// Catalog overrides the default attribute catalog, for callers
	// testing against a non-standard version matrix. Nil uses
	// pankind.Default.
	Catalog pankind.Catalog
	// Logger receives warning-severity diagnostics; nil uses a no-op
	// logger.
	Logger *log.Logger
}

// Engine is the caller-facing entry point: one instance
// owns one in-memory configuration tree.
type Engine struct {
	Doc        *xmltree.Document
	DeviceType devtype.DeviceType
	Version    panver.Version
	Catalog    pankind.Catalog
	Cache      *xmltree.Cache
	Resolver   *conflict.Resolver
	Logger     *log.Logger
}

// New constructs an Engine over root, inferring device type and version
// where opts leaves them unset.
func New(root *xmltree.Node, opts Options) (*Engine, error) {
	if root == nil {
		return nil, engineerr.New(engineerr.InvalidArgument, "engine: root element is nil")
	}

	deviceType := opts.DeviceType
	if !deviceType.IsValid() {
		deviceType, _ = devtype.Infer(root, opts.HostnameHint)
	}

	version := opts.Version
	if version.IsZero() {
		version = detectVersion(root)
	}

	strategy := opts.ConflictStrategy
	if strategy == "" {
		strategy = conflict.Skip
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Noop()
	}

	resolver := conflict.New(strategy, logger)
	resolver.RenameSuffix = opts.RenameSuffix

	catalog := opts.Catalog
	if catalog == nil {
		catalog = pankind.Default
	}

	var cache *xmltree.Cache
	if opts.CacheCapacity > 0 {
		cache = xmltree.NewCache(opts.CacheCapacity, opts.CacheTTL)
	}

	return &Engine{
		Doc:        xmltree.NewDocument(root),
		DeviceType: deviceType,
		Version:    version,
		Catalog:    catalog,
		Cache:      cache,
		Resolver:   resolver,
		Logger:     logger,
	}, nil
}

// detectVersion reads the root "config" element's own "version"
// attribute if present, falling back to defaultVersion.
func detectVersion(root *xmltree.Node) panver.Version {
	if raw, ok := root.Attr("version"); ok {
		if v, err := panver.Parse(raw); err == nil {
			return v
		}
	}
	return defaultVersion
}

// Root returns the live root element of the engine's configuration tree.
func (e *Engine) Root() *xmltree.Node {
	return e.Doc.Root
}

// invalidateCache drops every cached lookup for this tree.
func (e *Engine) invalidateCache() {
	if e.Cache != nil {
		e.Cache.Invalidate(e.Doc.Identity())
	}
}

// lookup evaluates path against the engine's tree through the XPath
// cache when one is configured, namespacing the cache key by device
// type and version so two engines that
// happen to share a cache instance never collide.
func (e *Engine) lookup(path string) ([]*xmltree.Node, error) {
	nsTuple := string(e.DeviceType) + "|" + e.Version.String()
	return e.Cache.Lookup(e.Doc.Root, e.Doc.Identity(), nsTuple, path)
}

func (e *Engine) lookupOne(path string) (*xmltree.Node, error) {
	nodes, err := e.lookup(path)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

func (e *Engine) graph() *refgraph.Graph {
	return refgraph.New(e.Doc.Root, e.DeviceType, e.Version)
}

func (e *Engine) merger() *merge.Merger {
	return merge.New(e.Doc.Root, e.Doc.Identity(), e.DeviceType, e.Version, e.Catalog, e.Resolver, e.Cache, e.Logger)
}

func (e *Engine) deduplicator() *dedup.Deduplicator {
	return dedup.New(e.Doc.Root, e.Doc.Identity(), e.DeviceType, e.Cache, e.Logger)
}

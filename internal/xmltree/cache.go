package xmltree

import (
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// cacheKey identifies one cached XPath lookup: the path string, the
// identity of the root Document it was evaluated against, and the
// ordered tuple of namespace-like context used to disambiguate
// Panorama/shared lookups that share an xpath shape.
type cacheKey struct {
	xpath    string
	rootID   int64
	nsTuple  string
}

// Cache is an LRU+TTL memoization layer over xmltree.Eval, keyed by
// (xpath, root_identity, ns_tuple). Dynamic/templated
// XPaths (those containing a predicate value that looks caller-supplied,
// detected by the presence of "*" or an unresolved brace) are never
// cached, since their result set is expected to vary across calls with
// the same literal path string.
type Cache struct {
	mu    sync.Mutex
	inner *lru.LRU[cacheKey, []*Node]
}

// NewCache builds a Cache with the given entry capacity and per-entry
// TTL.
func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		inner: lru.NewLRU[cacheKey, []*Node](capacity, nil, ttl),
	}
}

// Bypassable reports whether path should skip the cache entirely, per
// the dynamic/templated-xpath exclusion rule.
func Bypassable(path string) bool {
	return strings.Contains(path, "*") || strings.Contains(path, "{")
}

// Lookup evaluates path against root, using the cache when possible.
func (c *Cache) Lookup(root *Node, rootID int64, nsTuple string, path string) ([]*Node, error) {
	if c == nil || Bypassable(path) {
		return Eval(root, path)
	}

	key := cacheKey{xpath: path, rootID: rootID, nsTuple: nsTuple}

	c.mu.Lock()
	if cached, ok := c.inner.Get(key); ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	result, err := Eval(root, path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.inner.Add(key, result)
	c.mu.Unlock()
	return result, nil
}

// Invalidate drops every cache entry for the given root identity. Callers
// must invoke this after any mutation (AppendChild, RemoveChild, SetAttr,
// Delete, Merge, ...) performed against a tree whose rootID was used in
// prior Lookup calls, since the XML structure under that root may have
// changed in ways that make cached node lists stale.
func (c *Cache) Invalidate(rootID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.inner.Keys() {
		if key.rootID == rootID {
			c.inner.Remove(key)
		}
	}
}

// Len reports the current number of cached entries, for tests and
// diagnostics.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%d|%s", k.xpath, k.rootID, k.nsTuple)
}

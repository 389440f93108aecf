// Package dedup finds value-equivalent objects within a context, picks
// a primary per a pluggable strategy, and collapses every non-primary
// into it, rewriting every in-scope reference.
package dedup

import (
	"net/netip"
	"sort"
	"strconv"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/refgraph"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Strategy names one of the primary-selection strategies.
type Strategy string

const (
	First        Strategy = "first"
	Shortest     Strategy = "shortest"
	Longest      Strategy = "longest"
	Alphabetical Strategy = "alphabetical"
)

// IsValid reports whether s names a recognized strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case First, Shortest, Longest, Alphabetical:
		return true
	default:
		return false
	}
}

// Class is one equivalence class of value-equivalent entities: Primary
// survives, Removed lists every name collapsed into it.
type Class struct {
	Kind    pankind.Kind
	Primary string
	Removed []string
}

// Plan is the proposed (or, after Apply, executed) outcome of a
// deduplication run.
type Plan struct {
	Classes []Class
	// RewriteCounts maps each removed name to how many references to it
	// were rewritten, populated only after a non-dry-run Apply.
	RewriteCounts map[string]int
}

// Deduplicator finds and collapses value-equivalent entities within one
// context of one configuration tree.
type Deduplicator struct {
	Root       *xmltree.Node
	RootID     int64
	DeviceType devtype.DeviceType
	Cache      *xmltree.Cache
	Logger     *log.Logger
}

// New builds a Deduplicator over root.
func New(root *xmltree.Node, rootID int64, deviceType devtype.DeviceType, cache *xmltree.Cache, logger *log.Logger) *Deduplicator {
	if logger == nil {
		logger = log.Noop()
	}
	return &Deduplicator{Root: root, RootID: rootID, DeviceType: deviceType, Cache: cache, Logger: logger}
}

func (d *Deduplicator) invalidateCache() {
	if d.Cache != nil {
		d.Cache.Invalidate(d.RootID)
	}
}

// Plan computes the equivalence classes and chosen primaries for kind in
// ctx without mutating the tree.
func (d *Deduplicator) Plan(container *xmltree.Node, kind pankind.Kind, strategy Strategy) (*Plan, error) {
	if !strategy.IsValid() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "unknown dedup strategy %q", strategy)
	}
	if container == nil {
		return &Plan{}, nil
	}

	type candidate struct {
		name string
		node *xmltree.Node
	}

	groups := map[string][]candidate{}
	var order []string
	for _, entry := range container.ChildrenByTag("entry") {
		k, ok := valueKey(kind, entry)
		if !ok {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], candidate{name: entry.Name(), node: entry})
	}

	var classes []Class
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.name
		}
		primary := choosePrimary(names, strategy)
		var removed []string
		for _, n := range names {
			if n != primary {
				removed = append(removed, n)
			}
		}
		classes = append(classes, Class{Kind: kind, Primary: primary, Removed: removed})
	}

	return &Plan{Classes: classes}, nil
}

// choosePrimary implements the deterministic tie-break rule:
// a pure function of the equivalence class (encounter order for first,
// alphabetical tiebreak for shortest/longest).
func choosePrimary(names []string, strategy Strategy) string {
	switch strategy {
	case First:
		return names[0]
	case Alphabetical:
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return sorted[0]
	case Shortest:
		return extreme(names, func(a, b string) bool {
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		})
	case Longest:
		return extreme(names, func(a, b string) bool {
			if len(a) != len(b) {
				return len(a) > len(b)
			}
			return a < b
		})
	default:
		return names[0]
	}
}

// extreme returns the element of names that "wins" under less(a, b)
// (a should replace the current best), scanning in encounter order so
// the result is a pure function of the (ordered) input.
func extreme(names []string, less func(a, b string) bool) string {
	best := names[0]
	for _, n := range names[1:] {
		if less(n, best) {
			best = n
		}
	}
	return best
}

// Apply executes plan against ctx: for each class, every non-primary
// entry is deleted from container, and every in-scope reference to it is
// rewritten to the primary's name. After
// apply, the reference-graph cache for kind is invalidated (the whole
// LRU cache
// default).
func (d *Deduplicator) Apply(container *xmltree.Node, ctx devtype.Context, version panver.Version, plan *Plan) error {
	if container == nil || plan == nil {
		return nil
	}
	graph := refgraph.New(d.Root, d.DeviceType, version)
	plan.RewriteCounts = map[string]int{}

	for _, class := range plan.Classes {
		for _, removedName := range class.Removed {
			n, err := graph.RewriteReferences(refgraph.Query{Kind: class.Kind, Name: removedName, Context: ctx}, class.Primary)
			if err != nil {
				return err
			}
			plan.RewriteCounts[removedName] = n

			entry := container.ChildNamed("entry", removedName)
			if entry == nil {
				continue
			}
			if err := xmltree.Delete(entry); err != nil {
				return err
			}
		}
	}
	d.invalidateCache()
	return nil
}

// valueKey derives the equivalence-class key for entry under kind. The
// second return reports
// whether entry is eligible for dedup at all (kinds with no defined
// value key are left untouched).
func valueKey(kind pankind.Kind, entry *xmltree.Node) (string, bool) {
	switch kind {
	case pankind.Address:
		a := entity.NewAddress(entry)
		t, ok := a.AddrType()
		if !ok {
			return "", false
		}
		return string(t) + "|" + canonicalizeAddressValue(t, a.Value()), true

	case pankind.Service:
		s := entity.NewService(entry)
		proto := s.Protocol()
		if proto == "" {
			return "", false
		}
		return proto + "|" + canonicalizePortRange(s.DestinationPort()) + "|" + canonicalizePortRange(s.SourcePort()), true

	case pankind.Tag:
		t := entity.NewTag(entry)
		return "color=" + t.Color() + "|comments=" + t.Comments(), true

	case pankind.AddressGroup:
		g := entity.NewAddressGroup(entry)
		if !g.IsStatic() {
			return "", false
		}
		return "members=" + sortedJoin(g.StaticMembers()), true

	case pankind.ServiceGroup:
		g := entity.NewServiceGroup(entry)
		return "members=" + sortedJoin(g.Members()), true

	default:
		return "", false
	}
}

func sortedJoin(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// canonicalizeAddressValue normalizes an address value:
// IP netmasks to network form, ranges with endpoints sorted, FQDNs
// lower-cased. ip-wildcard has no further canonical form beyond its
// literal text.
func canonicalizeAddressValue(t entity.AddrType, value string) string {
	switch t {
	case entity.AddrIPNetmask:
		return canonicalizeNetmask(value)
	case entity.AddrIPRange:
		return canonicalizeRange(value)
	case entity.AddrFQDN:
		return strings.ToLower(strings.TrimSpace(value))
	default:
		return value
	}
}

// canonicalizeNetmask reduces a "host/prefix" or bare host value to its
// network address in CIDR form (e.g. "10.0.0.5/24" -> "10.0.0.0/24"), so
// two netmask entries naming the same network canonicalize identically
// regardless of which host bits were originally set.
func canonicalizeNetmask(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return v
	}
	if !strings.Contains(v, "/") {
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return v
		}
		bits := 32
		if addr.Is6() {
			bits = 128
		}
		v = v + "/" + strconv.Itoa(bits)
	}
	prefix, err := netip.ParsePrefix(v)
	if err != nil {
		return value
	}
	return prefix.Masked().String()
}

// canonicalizeRange sorts an "a.b.c.d-w.x.y.z" range's two endpoints so
// two ranges naming the same span canonicalize identically regardless of
// which endpoint was written first.
func canonicalizeRange(value string) string {
	parts := strings.SplitN(strings.TrimSpace(value), "-", 2)
	if len(parts) != 2 {
		return value
	}
	lo, errLo := netip.ParseAddr(strings.TrimSpace(parts[0]))
	hi, errHi := netip.ParseAddr(strings.TrimSpace(parts[1]))
	if errLo != nil || errHi != nil {
		return value
	}
	if lo.Compare(hi) > 0 {
		lo, hi = hi, lo
	}
	return lo.String() + "-" + hi.String()
}

// canonicalizePortRange normalizes a port/range string (e.g. "443",
// "1024-65535", "") so equivalent forms compare equal; an empty string
// (no source port set) canonicalizes to itself.
func canonicalizePortRange(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	parts := strings.SplitN(p, "-", 2)
	if len(parts) == 1 {
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return p
		}
		return strconv.Itoa(n)
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errLo != nil || errHi != nil {
		return p
	}
	if lo == hi {
		return strconv.Itoa(lo)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return strconv.Itoa(lo) + "-" + strconv.Itoa(hi)
}

// Package panflow manipulates PAN-OS firewall and Panorama
// configurations as mutable XML trees: typed object/policy access,
// cross-context merging with dependency cascades, deduplication with
// reference rewriting, bidirectional-NAT splitting, and cross-version
// attribute adaptation.
//
// Parse a configuration, build an Engine over it, and drive the engine's
// methods; the tree is mutated in place and can be serialized back out
// with Save.
package panflow

import (
	"io"

	"github.com/ancoleman/panflow-sub001/internal/conflict"
	"github.com/ancoleman/panflow-sub001/internal/criteria"
	"github.com/ancoleman/panflow-sub001/internal/dedup"
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engine"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/natsplit"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Node is one element of a parsed configuration tree.
type Node = xmltree.Node

// Document wraps a parsed configuration's root element with the identity
// the engine's lookup cache keys on.
type Document = xmltree.Document

// Engine is the transformation engine over one configuration tree. One
// engine owns one tree and is not safe for concurrent use; parallelism
// across independent trees is fine.
type Engine = engine.Engine

// Options configures Engine construction; zero values are inferred or
// defaulted.
type Options = engine.Options

// Kind identifies a PAN-OS object or rule kind.
type Kind = pankind.Kind

// Context identifies the scope an entity lives in: shared, a device
// group, a vsys, or a template.
type Context = devtype.Context

// DeviceType distinguishes firewall from Panorama configurations.
type DeviceType = devtype.DeviceType

// Version is a parsed PAN-OS version.
type Version = panver.Version

// Strategy names a conflict-resolution behavior for merges into an
// occupied target slot.
type Strategy = conflict.Strategy

// Criteria is a filter predicate set for FilterObjects and merge filter
// files.
type Criteria = criteria.Criteria

// Object kinds.
const (
	Address            = pankind.Address
	AddressGroup       = pankind.AddressGroup
	Service            = pankind.Service
	ServiceGroup       = pankind.ServiceGroup
	Application        = pankind.Application
	ApplicationGroup   = pankind.ApplicationGroup
	Tag                = pankind.Tag
	Schedule           = pankind.Schedule
	CustomURLCategory  = pankind.CustomURLCategory
	ExternalList       = pankind.ExternalList
	Region             = pankind.Region
	DynamicUserGroup   = pankind.DynamicUserGroup
	SecurityProfileGrp = pankind.SecurityProfileGrp
)

// Rule kinds.
const (
	RuleSecurity    = pankind.RuleSecurity
	RuleNAT         = pankind.RuleNAT
	RulePBF         = pankind.RulePBF
	RuleDecryption  = pankind.RuleDecryption
	RuleQoS         = pankind.RuleQoS
	RuleAuth        = pankind.RuleAuth
	RuleAppOverride = pankind.RuleAppOverride
	RuleDoS         = pankind.RuleDoS
)

// Conflict strategies.
const (
	Skip        = conflict.Skip
	Overwrite   = conflict.Overwrite
	KeepSource  = conflict.KeepSource
	KeepTarget  = conflict.KeepTarget
	MergeValues = conflict.Merge
	Rename      = conflict.Rename
	KeepNewer   = conflict.KeepNewer
)

// Device types.
const (
	Firewall = devtype.Firewall
	Panorama = devtype.Panorama
)

// Shared returns the shared-scope context.
func Shared() Context { return devtype.Shared() }

// DeviceGroup returns a Panorama device-group context.
func DeviceGroup(name string) Context { return devtype.DeviceGroup(name) }

// Vsys returns a firewall vsys context.
func Vsys(name string) Context { return devtype.Vsys(name) }

// Template returns a Panorama template context.
func Template(name string) Context { return devtype.Template(name) }

// ParseVersion parses a PAN-OS version string such as "10.2" or "11.0".
func ParseVersion(s string) (Version, error) { return panver.Parse(s) }

// Parse reads a well-formed <config> document from r.
func Parse(r io.Reader) (*Document, error) { return xmltree.Parse(r) }

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) { return xmltree.ParseString(s) }

// Save writes the tree rooted at root to w as pretty-printed UTF-8 XML
// with an XML declaration.
func Save(w io.Writer, root *Node) error {
	_, err := io.WriteString(w, xmltree.PrettyPrint(root))
	return err
}

// New constructs an Engine over doc's root, inferring device type and
// version where opts leaves them unset.
func New(doc *Document, opts Options) (*Engine, error) {
	if doc == nil {
		return nil, engineerr.New(engineerr.InvalidArgument, "panflow: document is nil")
	}
	return engine.New(doc.Root, opts)
}

// Merge/dedup/NAT-split option and result types, re-exported so callers
// never import internal packages.
type (
	MergeOptions       = engine.MergeOptions
	MergePolicyOptions = engine.MergePolicyOptions
	MergeReport        = engine.Report
	DedupStrategy      = dedup.Strategy
	DedupPlan          = dedup.Plan
	NATSplitOptions    = natsplit.Options
	NATSplitResult     = natsplit.Result
)

// Dedup primary-selection strategies.
const (
	DedupFirst        = dedup.First
	DedupShortest     = dedup.Shortest
	DedupLongest      = dedup.Longest
	DedupAlphabetical = dedup.Alphabetical
)

// Policy placement positions.
const (
	PositionTop    = engine.PositionTop
	PositionBottom = engine.PositionBottom
	PositionBefore = engine.PositionBefore
	PositionAfter  = engine.PositionAfter
)

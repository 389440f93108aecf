// Package natsplit decomposes a bidirectional NAT rule into an explicit
// unidirectional pair, synthesizing the reverse rule's
// zone/address/translation fields.
package natsplit

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/log"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// DefaultSuffix is appended to a split rule's name to build its reverse
// rule's name, when the caller does not override it.
const DefaultSuffix = "-reverse"

// Options controls how a single bidirectional NAT rule is decomposed.
type Options struct {
	// Suffix overrides DefaultSuffix for the reverse rule's name.
	Suffix string
	// ZoneSwap swaps from<->to on the reverse rule.
	ZoneSwap bool
	// AddressSwap swaps source<->destination on the reverse rule.
	AddressSwap bool
	// ReturnRuleAnyAny forces the reverse rule's source zone and source
	// address to "any" instead of swapping (mutually exclusive in
	// intent with AddressSwap/ZoneSwap's source-side effect, but the
	// caller's choice is applied as given - they are alternative
	// strategies, not mutually enforced here).
	ReturnRuleAnyAny bool
	// DisableOrigBidirectional clears bi-directional on the original
	// rule after the reverse rule is created.
	DisableOrigBidirectional bool
	Logger                   *log.Logger
}

func (o Options) suffix() string {
	if o.Suffix != "" {
		return o.Suffix
	}
	return DefaultSuffix
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Noop()
}

// Split decomposes the bidirectional NAT rule at original into an
// explicit reverse rule, inserted as original's next sibling in
// original's parent container. It returns the new reverse rule node.
func Split(original *xmltree.Node, opts Options) (*xmltree.Node, error) {
	nat := entity.NewNATRule(original)
	if !nat.BiDirectional() {
		return nil, engineerr.Newf(engineerr.InvalidArgument, "nat rule %q is not bi-directional", nat.Name())
	}
	if original.Parent == nil {
		return nil, engineerr.New(engineerr.Internal, "detached element with no parent when one was expected")
	}

	reverse := xmltree.CloneDeep(original)
	reverse.SetAttr("name", nat.Name()+opts.suffix())
	reverseNAT := entity.NewNATRule(reverse)
	reverseNAT.ClearBiDirectional()

	applyZoneAndAddressSwap(reverseNAT, opts)
	swapOrSynthesizeTranslations(reverse, opts.logger())

	idx := original.Parent.IndexOfChild(original)
	original.Parent.InsertChildAt(reverse, idx+1)

	if opts.DisableOrigBidirectional {
		nat.ClearBiDirectional()
	}

	return reverse, nil
}

// applyZoneAndAddressSwap mutates the reverse rule's zone and
// source/destination fields per the chosen transformation options.
func applyZoneAndAddressSwap(reverse entity.NATRule, opts Options) {
	if opts.ZoneSwap {
		from, to := reverse.FromZones(), reverse.ToZones()
		reverse.SetFromZones(to)
		reverse.SetToZones(from)
	}
	if opts.AddressSwap {
		src, dst := reverse.Source(), reverse.Destination()
		reverse.SetSource(dst)
		reverse.SetDestination(src)
	}
	if opts.ReturnRuleAnyAny {
		reverse.SetFromZones([]string{"any"})
		reverse.SetSource([]string{"any"})
	}
}

// swapOrSynthesizeTranslations swaps source/destination translation
// structurally if both exist, else synthesizes the missing side by
// projecting the present side's translated address/port through a
// kind-specific adaptation.
func swapOrSynthesizeTranslations(reverse *xmltree.Node, logger *log.Logger) {
	src := reverse.Child("source-translation")
	dst := reverse.Child("destination-translation")

	switch {
	case src != nil && dst != nil:
		src.Tag, dst.Tag = dst.Tag, src.Tag
		reorderTranslations(reverse, src, dst)

	case src != nil && dst == nil:
		synthesized := synthesizeDestinationTranslation(src, logger)
		reverse.RemoveChild(src)
		reverse.AppendChild(synthesized)

	case dst != nil && src == nil:
		synthesized := synthesizeSourceTranslation(dst, logger)
		reverse.RemoveChild(dst)
		reverse.AppendChild(synthesized)
	}
}

// reorderTranslations keeps source-translation and destination-translation
// in their original document positions after the in-place tag swap above
// (swapping Tag alone leaves the nodes in whatever slice order they were
// found, which is harmless for PAN-OS's unordered element model but kept
// deterministic for pretty-printed output).
func reorderTranslations(parent, a, b *xmltree.Node) {
	ia, ib := parent.IndexOfChild(a), parent.IndexOfChild(b)
	if ia == -1 || ib == -1 {
		return
	}
	parent.Children[ia], parent.Children[ib] = parent.Children[ib], parent.Children[ia]
}

// fallbackAddress is used when a translation being synthesized has no
// discoverable translated address to project from.
const fallbackAddress = "0.0.0.0"

// translatedAddressAndPort finds the translated-address/translated-port
// leaves nested anywhere under a source-translation or
// destination-translation element, regardless of which type wrapper
// (dynamic-ip-and-port, dynamic-ip, static-ip) is present.
func translatedAddressAndPort(el *xmltree.Node) (address, port string) {
	for _, child := range allDescendants(el) {
		if child.Tag == "translated-address" && address == "" {
			address = xmltree.TextOf(child)
		}
		if child.Tag == "translated-port" && port == "" {
			port = xmltree.TextOf(child)
		}
	}
	return address, port
}

func allDescendants(el *xmltree.Node) []*xmltree.Node {
	var out []*xmltree.Node
	for _, c := range el.Children {
		out = append(out, c)
		out = append(out, allDescendants(c)...)
	}
	return out
}

// synthesizeDestinationTranslation projects a source-translation
// element's translated address/port into a new destination-translation
// element (PAN-OS's destination-translation has a flat
// translated-address/translated-port shape, unlike source-translation's
// nested type wrapper).
func synthesizeDestinationTranslation(sourceTranslation *xmltree.Node, logger *log.Logger) *xmltree.Node {
	address, port := translatedAddressAndPort(sourceTranslation)
	if address == "" {
		logger.Warn("nat split: source-translation has no translated-address to project, using fallback", "fallback", fallbackAddress)
		address = fallbackAddress
	}

	dst := xmltree.NewNode("destination-translation")
	addr := xmltree.CreateChild(dst, "translated-address", nil)
	xmltree.SetText(addr, address)
	if port != "" {
		p := xmltree.CreateChild(dst, "translated-port", nil)
		xmltree.SetText(p, port)
	}
	return dst
}

// synthesizeSourceTranslation projects a destination-translation
// element's translated address/port into a new source-translation
// element, defaulting to the dynamic-ip-and-port form (PAN-OS's most
// common source-translation shape) with best-effort port preservation.
func synthesizeSourceTranslation(destTranslation *xmltree.Node, logger *log.Logger) *xmltree.Node {
	address, _ := translatedAddressAndPort(destTranslation)
	if address == "" {
		logger.Warn("nat split: destination-translation has no translated-address to project, using fallback", "fallback", fallbackAddress)
		address = fallbackAddress
	}

	src := xmltree.NewNode("source-translation")
	dynamic := xmltree.CreateChild(src, "dynamic-ip-and-port", nil)
	translatedAddress := xmltree.CreateChild(dynamic, "translated-address", nil)
	xmltree.SetText(translatedAddress, address)
	return src
}

// Result summarizes a batch split.
type Result struct {
	Processed int
	Succeeded int
	Failed    int
	Details   []Detail
}

// Detail records one rule's batch-split outcome.
type Detail struct {
	RuleName string
	Reverse  string
	Error    string
}

// SplitAll enumerates every bi-directional=yes rule of the chosen rule
// kind (always nat; kept as a parameter so the caller states intent
// explicitly) in container, optionally filtered by a
// substring of the rule name, and splits each.
func SplitAll(container *xmltree.Node, ruleKind pankind.Kind, nameFilter string, opts Options) (Result, error) {
	if ruleKind != pankind.RuleNAT {
		return Result{}, engineerr.Newf(engineerr.InvalidArgument, "kind %q is not splittable; only nat rules carry bi-directional", ruleKind)
	}
	if container == nil {
		return Result{}, nil
	}

	var result Result
	for _, entry := range container.ChildrenByTag("entry") {
		nat := entity.NewNATRule(entry)
		if !nat.BiDirectional() {
			continue
		}
		if nameFilter != "" && !strings.Contains(entry.Name(), nameFilter) {
			continue
		}

		result.Processed++
		reverse, err := Split(entry, opts)
		if err != nil {
			result.Failed++
			result.Details = append(result.Details, Detail{RuleName: entry.Name(), Error: err.Error()})
			continue
		}
		result.Succeeded++
		result.Details = append(result.Details, Detail{RuleName: entry.Name(), Reverse: reverse.Name()})
	}
	return result, nil
}

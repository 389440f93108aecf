// Package versionadapt adapts elements across PAN-OS versions: given a
// cloned element and its kind, it strips sub-elements unsupported in the
// target PAN-OS version, flags sub-elements required in the target but
// missing from the source, and applies the small set of special
// conversions (color codes, NAT fallback) that the attribute catalog
// cannot express as pure presence/absence.
package versionadapt

import (
	"fmt"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Options controls how Adapt reacts to a missing required element.
type Options struct {
	// Tolerant, when true, downgrades a MissingRequiredAttribute
	// condition from a hard failure to a best-effort continuation: the
	// element is left absent rather than the whole copy failing.
	Tolerant bool
}

// Diagnostic records one MissingRequiredAttribute finding produced while
// adapting el, even in tolerant mode (callers may still want to surface
// the warning).
type Diagnostic struct {
	Kind    pankind.Kind
	Element string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: missing required element %q for target version", d.Kind, d.Element)
}

// Adapt mutates el in place so that only elements legal in target
// remain, per the attribute catalog's per-kind records. It returns the
// diagnostics for any required-in-target element that was absent from
// el; in non-tolerant mode a non-empty diagnostic list is also returned
// as a VersionIncompatible error.
func Adapt(catalog pankind.Catalog, el *xmltree.Node, kind pankind.Kind, target panver.Version, opts Options) ([]Diagnostic, error) {
	removeUnsupported(catalog, el, kind, target)
	applySpecialConversions(el, kind, target)

	diags := checkRequired(catalog, el, kind, target)
	if len(diags) > 0 && !opts.Tolerant {
		msgs := make([]string, 0, len(diags))
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		return diags, engineerr.Newf(engineerr.VersionIncompatible,
			"%s: %d missing required element(s) for target version %s: %v", kind, len(diags), target.String(), msgs)
	}
	return diags, nil
}

// removeUnsupported deletes every direct child of el whose tag is a
// known catalog entry for kind and is not supported in target. Children
// with no catalog entry are left untouched - the
// catalog defaults unknown elements to "always supported" so the
// adapter never strips data it has no opinion about.
func removeUnsupported(catalog pankind.Catalog, el *xmltree.Node, kind pankind.Kind, target panver.Version) {
	for _, name := range catalog.Elements(kind) {
		if catalog.SupportedIn(kind, name, target) {
			continue
		}
		for _, child := range el.ChildrenByTag(name) {
			el.RemoveChild(child)
		}
	}
}

// checkRequired finds every sub-element required in target that is
// absent from el.
func checkRequired(catalog pankind.Catalog, el *xmltree.Node, kind pankind.Kind, target panver.Version) []Diagnostic {
	var diags []Diagnostic
	for _, name := range catalog.Elements(kind) {
		if !catalog.RequiredIn(kind, name, target) {
			continue
		}
		if el.Child(name) == nil {
			diags = append(diags, Diagnostic{Kind: kind, Element: name})
		}
	}
	return diags
}

// applySpecialConversions performs the two hand-coded transitions that
// are not pure element presence/absence: named tag colors downgraded to
// a numeric default, and NAT's synthesized
// "none" fallback when moving an older rule forward to a version where
// fallback became required.
func applySpecialConversions(el *xmltree.Node, kind pankind.Kind, target panver.Version) {
	if kind == pankind.Tag {
		convertTagColor(el, target)
	}
	if kind == pankind.RuleNAT {
		synthesizeNATFallback(el, target)
	}
}

// namedColorDefault is the deterministic numeric code a named color maps
// to when the target PAN-OS predates named colors (PAN-OS versions in
// this catalog's range all support named colors, so this is a
// forward-compatible safety net rather than a cutoff this catalog
// currently exercises).
const namedColorDefault = "color1"

var namedColors = map[string]bool{
	"red": true, "green": true, "blue": true, "yellow": true, "copper": true,
	"orange": true, "purple": true, "gray": true, "light green": true,
	"cyan": true, "lime": true, "black": true, "gold": true, "brown": true,
	"olive": true, "maroon": true, "red-orange": true, "yellow-orange": true,
	"forest green": true, "turquoise blue": true, "azure blue": true,
	"cerulean blue": true, "midnight blue": true, "medium blue": true,
	"cobalt blue": true, "violet blue": true, "blue violet": true,
	"medium rose": true, "lavender": true, "orchid": true, "thistle": true,
	"peach": true, "salmon": true, "magenta": true, "red violet": true,
	"mahogany": true, "burnt sienna": true, "chestnut": true,
}

// namedColorsSince is the oldest version this catalog tracks (10.1);
// every version from it onward supports named colors.
var namedColorsSince = panver.MustParse("10.1")

func convertTagColor(el *xmltree.Node, target panver.Version) {
	if !target.LessThan(namedColorsSince) {
		return
	}
	color := el.Child("color")
	if color == nil {
		return
	}
	value := xmltree.TextOf(color)
	if namedColors[value] {
		// only reached for a target older than namedColorsSince, which
		// no tracked version is.
		xmltree.SetText(color, namedColorDefault)
	}
}

// natFallbackRequiredSince is the version NAT's fallback element became
// mandatory.
var natFallbackRequiredSince = panver.MustParse("10.2")

func synthesizeNATFallback(el *xmltree.Node, target panver.Version) {
	if target.LessThan(natFallbackRequiredSince) {
		return
	}
	if el.Child("fallback") != nil {
		return
	}
	fallback := xmltree.NewNode("fallback")
	fallback.Text = "none"
	el.AppendChild(fallback)
}

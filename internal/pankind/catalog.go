package pankind

import "github.com/ancoleman/panflow-sub001/internal/panver"

// AttrRecord is the per-version support record for a sub-element: whether a
// sub-element is supported, and whether it is required, from a given
// PAN-OS version onward. An empty SupportedSince means "always
// supported"; an empty RequiredSince means "never required".
type AttrRecord struct {
	// SupportedSince is the version from which this sub-element is legal.
	// Empty means supported in every known version.
	SupportedSince string
	// SupportedUntil, if set, is the first version in which this
	// sub-element is no longer legal; it is legal only in versions below
	// it. Empty means still legal.
	SupportedUntil string
	// RequiredSince is the version from which this sub-element is
	// mandatory. Empty means never required.
	RequiredSince string
}

// Catalog maps Kind -> sub-element name -> version record. It is the
// sole source of truth for version adaptation.
type Catalog map[Kind]map[string]AttrRecord

// Default is the built-in attribute catalog covering the version-gated
// sub-elements the adapter acts on, plus the common fields every
// object/rule kind carries.
var Default = Catalog{
	RuleSecurity: {
		"rule-type":                          {SupportedSince: "11.0"},
		"ssl-decrypt-mirror":                 {SupportedSince: "11.0"},
		"url-category-match":                 {SupportedSince: "11.0"},
		"disable-server-response-inspection": {SupportedSince: "10.2"},
		"category":                           {},
		"profile-setting":                    {},
		"log-setting":                        {},
		"schedule":                           {},
	},
	RuleNAT: {
		"fallback":                     {SupportedSince: "10.2", RequiredSince: "10.2"},
		"bi-directional":               {},
		"active-active-device-binding": {SupportedSince: "10.1"},
	},
	RulePBF: {
		"symmetric-return-addresses": {SupportedSince: "10.2"},
	},
	RuleDecryption: {
		"ssl-protocol-version-min": {SupportedSince: "10.2"},
		"tls13-action":             {SupportedSince: "11.0"},
	},
	Tag: {
		"color":    {},
		"comments": {},
	},
	Address: {
		"ip-netmask":  {},
		"ip-range":    {},
		"fqdn":        {},
		"ip-wildcard": {SupportedSince: "10.1"},
		"description": {},
		"tag":         {},
	},
}

// SupportedIn reports whether sub-element name of kind is legal in
// target. Unknown kinds/elements default to "always supported" so the
// adapter never strips data it has no catalog opinion about.
func (c Catalog) SupportedIn(kind Kind, name string, target panver.Version) bool {
	rec, ok := c[kind][name]
	if !ok {
		return true
	}
	if rec.SupportedSince != "" {
		since, err := panver.Parse(rec.SupportedSince)
		if err == nil && target.LessThan(since) {
			return false
		}
	}
	if rec.SupportedUntil != "" {
		until, err := panver.Parse(rec.SupportedUntil)
		if err == nil && target.GreaterThanOrEqual(until) {
			return false
		}
	}
	return true
}

// RequiredIn reports whether sub-element name of kind is mandatory in
// target.
func (c Catalog) RequiredIn(kind Kind, name string, target panver.Version) bool {
	rec, ok := c[kind][name]
	if !ok || rec.RequiredSince == "" {
		return false
	}
	since, err := panver.Parse(rec.RequiredSince)
	if err != nil {
		return false
	}
	return target.GreaterThanOrEqual(since)
}

// Elements returns the known sub-element names for kind, for iteration
// during version adaptation.
func (c Catalog) Elements(kind Kind) []string {
	names := make([]string, 0, len(c[kind]))
	for name := range c[kind] {
		names = append(names, name)
	}
	return names
}

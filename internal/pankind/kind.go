// Package pankind defines the tagged-variant Kind type for every PAN-OS
// object and rule kind the engine understands, plus the per-kind
// attribute catalog version adaptation is driven by.
package pankind

// Kind identifies a first-class PAN-OS entity kind.
type Kind string

// Object kinds.
const (
	Address            Kind = "address"
	AddressGroup       Kind = "address_group"
	Service            Kind = "service"
	ServiceGroup       Kind = "service_group"
	Application        Kind = "application"
	ApplicationGroup   Kind = "application_group"
	Tag                Kind = "tag"
	Schedule           Kind = "schedule"
	CustomURLCategory  Kind = "custom_url_category"
	ExternalList       Kind = "external_list"
	Region             Kind = "region"
	DynamicUserGroup   Kind = "dynamic_user_group"
	SecurityProfileGrp Kind = "security_profile_group"

	// Security profile kinds.
	ProfileVirus       Kind = "virus"
	ProfileSpyware     Kind = "spyware"
	ProfileVuln        Kind = "vulnerability"
	ProfileURLFilter   Kind = "url_filtering"
	ProfileFileBlock   Kind = "file_blocking"
	ProfileWildfire    Kind = "wildfire_analysis"
	ProfileDNSSecurity Kind = "dns_security"
	ProfileDataFilter  Kind = "data_filtering"
)

// Rule kinds.
const (
	RuleSecurity    Kind = "security"
	RuleNAT         Kind = "nat"
	RulePBF         Kind = "pbf"
	RuleDecryption  Kind = "decryption"
	RuleQoS         Kind = "qos"
	RuleAuth        Kind = "authentication"
	RuleAppOverride Kind = "application_override"
	RuleDoS         Kind = "dos"
)

// SecurityProfileKinds lists the eight security-profile kinds referenced
// by a security_profile_group.
var SecurityProfileKinds = []Kind{
	ProfileVirus, ProfileSpyware, ProfileVuln, ProfileURLFilter,
	ProfileFileBlock, ProfileWildfire, ProfileDNSSecurity, ProfileDataFilter,
}

// RuleKinds lists the eight rule kinds, each split pre/post on Panorama.
var RuleKinds = []Kind{
	RuleSecurity, RuleNAT, RulePBF, RuleDecryption, RuleQoS, RuleAuth,
	RuleAppOverride, RuleDoS,
}

// IsRule reports whether k names a rule kind rather than an object kind.
func (k Kind) IsRule() bool {
	for _, r := range RuleKinds {
		if k == r {
			return true
		}
	}
	return false
}

// IsSecurityProfile reports whether k is one of the eight security
// profile kinds.
func (k Kind) IsSecurityProfile() bool {
	for _, p := range SecurityProfileKinds {
		if k == p {
			return true
		}
	}
	return false
}

// XMLTag returns the XML element tag used for this kind's container
// (e.g. "address", "service-group"). Most kinds use their own name with
// underscores replaced by hyphens; a few need an explicit override.
func (k Kind) XMLTag() string {
	if tag, ok := xmlTagOverrides[k]; ok {
		return tag
	}
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		c := k[i]
		if c == '_' {
			out = append(out, '-')
		} else {
			out = append(out, c)
		}
	}
	return string(out)
}

var xmlTagOverrides = map[Kind]string{
	Application:        "application",
	ApplicationGroup:   "application-group",
	CustomURLCategory:  "custom-url-category",
	ExternalList:       "external-list",
	DynamicUserGroup:   "dynamic-user-group",
	SecurityProfileGrp: "group", // nested under profiles/group
	ProfileVirus:       "virus",
	ProfileSpyware:     "spyware",
	ProfileVuln:        "vulnerability",
	ProfileURLFilter:   "url-filtering",
	ProfileFileBlock:   "file-blocking",
	ProfileWildfire:    "wildfire-analysis",
	ProfileDNSSecurity: "dns-security",
	ProfileDataFilter:  "data-filtering",
	RuleAppOverride:    "application-override",
}

// Key uniquely identifies an entity instance for visited-sets and
// dedup/reference bookkeeping.
type Key struct {
	Kind Kind
	Name string
}

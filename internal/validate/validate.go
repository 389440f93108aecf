// Package validate performs per-kind structural sanity checks returning
// (ok, []string), never mutating the tree.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Node runs the structural check registered for kind against el,
// returning (true, nil) for kinds with no kind-specific rule defined
// (the mechanical go-playground/validator struct-tag pass in
// internal/entity covers those on the DTO ingestion path instead).
func Node(kind pankind.Kind, el *xmltree.Node) (bool, []string) {
	var errs []string
	switch kind {
	case pankind.Address:
		errs = Address(entity.NewAddress(el))
	case pankind.AddressGroup:
		errs = AddressGroup(entity.NewAddressGroup(el))
	case pankind.Service:
		errs = Service(entity.NewService(el))
	case pankind.Tag:
		errs = TagColor(entity.NewTag(el))
	case pankind.ExternalList:
		errs = ExternalList(entity.NewExternalList(el))
	case pankind.Schedule:
		errs = Schedule(entity.NewSchedule(el))
	case pankind.SecurityProfileGrp:
		errs = SecurityProfileGroup(entity.NewSecurityProfileGroup(el))
	}
	return len(errs) == 0, errs
}

// Address checks that a carries exactly one of the four value forms
// with a syntactically valid value.
func Address(a entity.Address) []string {
	t, ok := a.AddrType()
	if !ok {
		return []string{fmt.Sprintf("address %q: must carry exactly one value form (ip-netmask, ip-range, fqdn, or ip-wildcard)", a.Name())}
	}
	value := a.Value()
	var valid bool
	switch t {
	case entity.AddrIPNetmask:
		valid = validIPNetmask(value)
	case entity.AddrIPRange:
		valid = validIPRange(value)
	case entity.AddrFQDN:
		valid = validFQDN(value)
	case entity.AddrIPWildcard:
		valid = validIPWildcard(value)
	}
	if !valid {
		return []string{fmt.Sprintf("address %q: invalid %s value %q", a.Name(), t, value)}
	}
	return nil
}

// AddressGroup checks that g is static xor dynamic, non-empty, and (for
// dynamic groups) that the filter has balanced quotes and contains only
// and/or/not/quoted tokens.
func AddressGroup(g entity.AddressGroup) []string {
	static, dynamic := g.IsStatic(), g.IsDynamic()
	switch {
	case static && dynamic:
		return []string{fmt.Sprintf("address group %q: must not be both static and dynamic", g.Name())}
	case !static && !dynamic:
		return []string{fmt.Sprintf("address group %q: must be static or dynamic", g.Name())}
	case static:
		if len(g.StaticMembers()) == 0 {
			return []string{fmt.Sprintf("address group %q: static group must have at least one member", g.Name())}
		}
		return nil
	default: // dynamic
		if err := validDynamicFilter(g.DynamicFilter()); err != nil {
			return []string{fmt.Sprintf("address group %q: %v", g.Name(), err)}
		}
		return nil
	}
}

// Service checks that s carries a protocol and syntactically valid port
// ranges.
func Service(s entity.Service) []string {
	var errs []string
	proto := s.Protocol()
	if proto == "" {
		return []string{fmt.Sprintf("service %q: must specify tcp or udp protocol", s.Name())}
	}
	if dest := s.DestinationPort(); !validPortRange(dest) {
		errs = append(errs, fmt.Sprintf("service %q: invalid destination port range %q", s.Name(), dest))
	}
	if src := s.SourcePort(); src != "" && !validPortRange(src) {
		errs = append(errs, fmt.Sprintf("service %q: invalid source port range %q", s.Name(), src))
	}
	return errs
}

// recognizedColorNames is the PAN-OS UI color name set; tagColorNPattern
// covers the numeric "colorN" form.
var recognizedColorNames = map[string]bool{
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

var tagColorNPattern = regexp.MustCompile(`^color([1-9]|[12][0-9]|3[0-2])$`)

// TagColor checks that t's color (if set) is numeric 1-32 or from the
// recognized name set. An absent color is not an error;
// it is an optional field.
func TagColor(t entity.Tag) []string {
	c := t.Color()
	if c == "" {
		return nil
	}
	if tagColorNPattern.MatchString(c) || recognizedColorNames[c] {
		return nil
	}
	return []string{fmt.Sprintf("tag %q: unrecognized color %q", t.Name(), c)}
}

// ExternalList checks that e carries a type and, for non-predefined
// types, a URL starting with http://, https://, or s3://.
func ExternalList(e entity.ExternalList) []string {
	t := e.Type()
	if t == "" {
		return []string{fmt.Sprintf("external list %q: must specify a type", e.Name())}
	}
	if strings.HasPrefix(t, "predefined") {
		return nil
	}
	url := e.URL()
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "s3://") {
		return []string{fmt.Sprintf("external list %q: url must start with http://, https://, or s3:// (got %q)", e.Name(), url)}
	}
	return nil
}

var (
	recurringTimeRangePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d-([01]\d|2[0-3]):[0-5]\d$`)
	nonRecurringRangePattern   = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}@([01]\d|2[0-3]):[0-5]\d-\d{4}/\d{2}/\d{2}@([01]\d|2[0-3]):[0-5]\d$`)
)

// Schedule checks that s is recurring xor non-recurring, with
// syntactically valid dates/times.
func Schedule(s entity.Schedule) []string {
	rec, nonrec := s.IsRecurring(), s.IsNonRecurring()
	switch {
	case rec && nonrec:
		return []string{fmt.Sprintf("schedule %q: must not be both recurring and non-recurring", s.Name())}
	case !rec && !nonrec:
		return []string{fmt.Sprintf("schedule %q: must be recurring or non-recurring", s.Name())}
	case rec:
		var errs []string
		for _, r := range s.RecurringTimeRanges() {
			if !recurringTimeRangePattern.MatchString(r) {
				errs = append(errs, fmt.Sprintf("schedule %q: invalid time range %q", s.Name(), r))
			}
		}
		return errs
	default: // non-recurring
		var errs []string
		for _, r := range s.NonRecurringRanges() {
			if !nonRecurringRangePattern.MatchString(r) {
				errs = append(errs, fmt.Sprintf("schedule %q: invalid date-time range %q", s.Name(), r))
			}
		}
		return errs
	}
}

// SecurityProfileGroup checks that g references at least one profile.
func SecurityProfileGroup(g entity.SecurityProfileGroup) []string {
	if len(g.Profiles()) == 0 {
		return []string{fmt.Sprintf("security profile group %q: must reference at least one profile", g.Name())}
	}
	return nil
}

// validDynamicFilter checks balanced quotes and that every non-quoted
// token is and/or/not.
func validDynamicFilter(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("dynamic filter must not be empty")
	}

	var quote byte
	inQuote := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if inQuote {
			if c == quote {
				inQuote = false
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			inQuote = true
		}
	}
	if inQuote {
		return fmt.Errorf("unbalanced quotes in filter %q", expr)
	}

	stripped := stripQuotedTokens(expr)
	for _, tok := range strings.Fields(stripped) {
		tok = strings.Trim(tok, "()")
		if tok == "" {
			continue
		}
		switch strings.ToLower(tok) {
		case "and", "or", "not":
		default:
			return fmt.Errorf("unexpected token %q in filter %q", tok, expr)
		}
	}
	return nil
}

func stripQuotedTokens(expr string) string {
	var sb strings.Builder
	var quote byte
	inQuote := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if inQuote {
			if c == quote {
				inQuote = false
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			inQuote = true
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

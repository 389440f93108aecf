package validate

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// fqdnPattern is a permissive RFC 1123-ish hostname pattern: labels of
// letters, digits, and hyphens, at least one dot, no leading/trailing
// hyphen per label.
var fqdnPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`)

// validIPNetmask accepts a bare IP (host route) or an IP/prefix CIDR.
func validIPNetmask(value string) bool {
	if value == "" {
		return false
	}
	if strings.Contains(value, "/") {
		_, _, err := net.ParseCIDR(value)
		return err == nil
	}
	return net.ParseIP(value) != nil
}

// validIPRange accepts "ip1-ip2" with both sides parseable IPs.
func validIPRange(value string) bool {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return false
	}
	return net.ParseIP(parts[0]) != nil && net.ParseIP(parts[1]) != nil
}

// validFQDN accepts a dotted hostname of up to 255 characters.
func validFQDN(value string) bool {
	return len(value) <= 255 && fqdnPattern.MatchString(value)
}

// validIPWildcard accepts "a.b.c.d/a.b.c.d" (address/wildcard-mask form);
// each side must be a dotted-quad, not necessarily a valid netmask.
func validIPWildcard(value string) bool {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return false
	}
	return validDottedQuad(parts[0]) && validDottedQuad(parts[1])
}

func validDottedQuad(s string) bool {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return false
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// validPortRange accepts a single port, a hyphenated range, or a
// comma-separated list of either, each bound to 1-65535.
func validPortRange(value string) bool {
	if value == "" {
		return false
	}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return false
		}
		bounds := strings.SplitN(part, "-", 2)
		for _, b := range bounds {
			n, err := strconv.Atoi(b)
			if err != nil || n < 1 || n > 65535 {
				return false
			}
		}
	}
	return true
}

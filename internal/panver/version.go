// Package panver parses and compares PAN-OS version strings such as
// "10.1", "10.2", "11.0", "11.1", "11.2". PAN-OS versions are not quite
// semver (they're usually two components, occasionally three with a
// maintenance release), so this package normalizes them onto
// Masterminds/semver/v3 rather than parsing ad hoc.
package panver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version wraps a normalized PAN-OS release.
type Version struct {
	raw string
	sv  *semver.Version
}

// Parse parses a PAN-OS version string like "10.1", "10.2.3", or "11".
// Missing components are zero-filled so "10.1" and "10.1.0" compare equal.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, fmt.Errorf("panver: empty version string")
	}

	parts := strings.Split(trimmed, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	normalized := strings.Join(parts[:3], ".")

	sv, err := semver.NewVersion(normalized)
	if err != nil {
		return Version{}, fmt.Errorf("panver: invalid version %q: %w", s, err)
	}
	return Version{raw: trimmed, sv: sv}, nil
}

// MustParse is like Parse but panics on error; intended for static tables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the original, un-normalized version string.
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0, or 1 according to whether v is less than, equal
// to, or greater than other.
func (v Version) Compare(other Version) int {
	if v.sv == nil || other.sv == nil {
		return strings.Compare(v.raw, other.raw)
	}
	return v.sv.Compare(other.sv)
}

// LessThan reports whether v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// LessThanOrEqual reports whether v <= other.
func (v Version) LessThanOrEqual(other Version) bool {
	return v.Compare(other) <= 0
}

// GreaterThanOrEqual reports whether v >= other.
func (v Version) GreaterThanOrEqual(other Version) bool {
	return v.Compare(other) >= 0
}

// IsZero reports whether v was never successfully parsed.
func (v Version) IsZero() bool {
	return v.sv == nil
}

// Highest returns the greatest version among candidates that is <=
// target, or the overall newest candidate if none qualify.
func Highest(target Version, candidates []Version) (Version, bool) {
	if len(candidates) == 0 {
		return Version{}, false
	}

	var bestLE Version
	haveLE := false
	var newest Version
	haveNewest := false

	for _, c := range candidates {
		if !haveNewest || c.Compare(newest) > 0 {
			newest = c
			haveNewest = true
		}
		if c.LessThanOrEqual(target) {
			if !haveLE || c.Compare(bestLE) > 0 {
				bestLE = c
				haveLE = true
			}
		}
	}

	if haveLE {
		return bestLE, true
	}
	return newest, haveNewest
}

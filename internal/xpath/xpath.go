// Package xpath is the context-aware XPath Resolver:
// it maps a logical (kind, device_type, context, version, name?) tuple to
// a concrete XPath string understood by internal/xmltree. It never
// touches a live tree; it only builds path strings.
package xpath

import (
	"fmt"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
)

const localhostEntry = "localhost.localdomain"

// knownVersions lists the versions the template table is keyed on, in
// ascending order. Highest() (internal/panver) walks this list to find
// the best match for a requested version.
var knownVersions = mustParseAll("10.1", "10.2", "11.0")

func mustParseAll(versions ...string) []panver.Version {
	out := make([]panver.Version, 0, len(versions))
	for _, v := range versions {
		out = append(out, panver.MustParse(v))
	}
	return out
}

// resolveVersion applies the version fallback rule: highest known
// version <= requested, else the newest known version.
func resolveVersion(requested panver.Version) panver.Version {
	if v, ok := panver.Highest(requested, knownVersions); ok {
		return v
	}
	return requested
}

// ContextXPath returns the base container path for (deviceType, ctx),
// e.g. "/config/shared" or the device-group/vsys/template subtree. It
// rejects device_group on a firewall and vsys on Panorama with a typed
// InvalidContext error.
func ContextXPath(deviceType devtype.DeviceType, ctx devtype.Context) (string, error) {
	if !ctx.ValidFor(deviceType) {
		return "", engineerr.Newf(engineerr.InvalidContext,
			"context %s is not valid for device type %s", ctx.String(), deviceType.String())
	}

	devicesBase := fmt.Sprintf("/config/devices/entry[@name='%s']", localhostEntry)

	switch ctx.Kind {
	case devtype.KindShared:
		return "/config/shared", nil
	case devtype.KindVsys:
		return fmt.Sprintf("%s/vsys/entry[@name='%s']", devicesBase, ctx.Name), nil
	case devtype.KindDeviceGroup:
		return fmt.Sprintf("%s/device-group/entry[@name='%s']", devicesBase, ctx.Name), nil
	case devtype.KindTemplate:
		return fmt.Sprintf("%s/template/entry[@name='%s']%s", devicesBase, ctx.Name, devicesBase), nil
	default:
		return "", engineerr.Newf(engineerr.InvalidContext, "unrecognized context kind %q", ctx.Kind)
	}
}

// containerRelPath returns the path segment, relative to a context base,
// under which a given object kind's container element lives.
func containerRelPath(kind pankind.Kind) string {
	switch {
	case kind == pankind.SecurityProfileGrp:
		return "profiles/" + kind.XMLTag()
	case kind.IsSecurityProfile():
		return "profiles/" + kind.XMLTag()
	default:
		return kind.XMLTag()
	}
}

// ObjectXPath returns the container XPath for kind in (deviceType, ctx)
// at the resolved version, or the leaf entry XPath when name is
// non-empty. kind must not be a rule kind; use PolicyXPath for those.
func ObjectXPath(kind pankind.Kind, deviceType devtype.DeviceType, ctx devtype.Context, version panver.Version, name string) (string, error) {
	if kind.IsRule() {
		return "", engineerr.Newf(engineerr.InvalidArgument, "kind %q is a rule kind, use PolicyXPath", kind)
	}
	base, err := ContextXPath(deviceType, ctx)
	if err != nil {
		return "", err
	}
	_ = resolveVersion(version) // object container paths do not currently vary by version; kept for future template entries

	container := fmt.Sprintf("%s/%s", base, containerRelPath(kind))
	if name == "" {
		return container, nil
	}
	return fmt.Sprintf("%s/entry[@name='%s']", container, escapeXPathLiteral(name)), nil
}

// rulebaseSegment computes the "pre-rulebase"/"post-rulebase"/"rulebase"
// segment for a rule lookup. Panorama device-group and shared contexts
// always split pre/post; firewall vsys and shared contexts never do.
type RulebasePosition string

const (
	RulebasePre  RulebasePosition = "pre"
	RulebasePost RulebasePosition = "post"
	RulebaseNone RulebasePosition = ""
)

func rulebaseSegment(deviceType devtype.DeviceType, position RulebasePosition) (string, error) {
	switch deviceType {
	case devtype.Firewall:
		return "rulebase", nil
	case devtype.Panorama:
		switch position {
		case RulebasePre:
			return "pre-rulebase", nil
		case RulebasePost:
			return "post-rulebase", nil
		default:
			return "", engineerr.New(engineerr.InvalidArgument, "panorama rule lookups require pre or post rulebase position")
		}
	default:
		return "", engineerr.Newf(engineerr.InvalidContext, "unrecognized device type %q", deviceType)
	}
}

// PolicyXPath returns the container XPath for ruleKind's rulebase in
// (deviceType, ctx) at the resolved version, or the leaf rule XPath when
// name is non-empty. On Panorama, position selects pre-rulebase or
// post-rulebase; it is ignored (and may be RulebaseNone) on a firewall.
func PolicyXPath(ruleKind pankind.Kind, deviceType devtype.DeviceType, ctx devtype.Context, version panver.Version, position RulebasePosition, name string) (string, error) {
	if !ruleKind.IsRule() {
		return "", engineerr.Newf(engineerr.InvalidArgument, "kind %q is not a rule kind", ruleKind)
	}
	base, err := ContextXPath(deviceType, ctx)
	if err != nil {
		return "", err
	}
	_ = resolveVersion(version)

	rb, err := rulebaseSegment(deviceType, position)
	if err != nil {
		return "", err
	}

	container := fmt.Sprintf("%s/%s/%s/rules", base, rb, ruleKind.XMLTag())
	if name == "" {
		return container, nil
	}
	return fmt.Sprintf("%s/entry[@name='%s']", container, escapeXPathLiteral(name)), nil
}

// escapeXPathLiteral guards against a name value that itself contains a
// single quote, which would otherwise break the [@name='...'] predicate
// syntax. PAN-OS object names cannot legally contain a quote, but this
// keeps malformed input from producing a silently wrong path.
func escapeXPathLiteral(name string) string {
	return strings.ReplaceAll(name, "'", "&apos;")
}

package devtype

import (
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Device-type inference weights: a structural marker is
// strong evidence; a hostname hint is a small tiebreak-flavored nudge.
const (
	weightStrong = 3
	weightHint   = 1
)

// Infer scores root toward Firewall or Panorama by probing for marker
// elements, since PAN-OS configurations never declare their device type
// explicitly. hostnameHint may be empty. The higher total wins; ties
// resolve to Firewall. The per-type score map is returned for
// diagnostics/logging.
func Infer(root *xmltree.Node, hostnameHint string) (DeviceType, map[DeviceType]int) {
	scores := map[DeviceType]int{Panorama: 0, Firewall: 0}

	devicesEntry := findLocalhostEntry(root)
	if devicesEntry != nil {
		if devicesEntry.Child("device-group") != nil {
			scores[Panorama] += weightStrong
		}
		if devicesEntry.Child("template") != nil {
			scores[Panorama] += weightStrong
		}
		if devicesEntry.Child("vsys") != nil {
			scores[Firewall] += weightStrong
		}
	}
	if root.Child("panorama") != nil || (devicesEntry != nil && devicesEntry.Child("panorama") != nil) {
		scores[Panorama] += weightStrong
	}
	if hasDescendant(root, "virtual-router") {
		scores[Firewall] += weightStrong
	}
	if hasDescendant(root, "interface") {
		scores[Firewall] += weightStrong
	}

	if hostnameHint != "" {
		h := strings.ToLower(hostnameHint)
		switch {
		case strings.Contains(h, "panorama") || strings.Contains(h, "pan-mgmt"):
			scores[Panorama] += weightHint
		case strings.Contains(h, "fw") || strings.Contains(h, "firewall"):
			scores[Firewall] += weightHint
		}
	}

	if scores[Panorama] > scores[Firewall] {
		return Panorama, scores
	}
	return Firewall, scores
}

func findLocalhostEntry(root *xmltree.Node) *xmltree.Node {
	devices := root.Child("devices")
	if devices == nil {
		return nil
	}
	return devices.ChildNamed("entry", "localhost.localdomain")
}

func hasDescendant(root *xmltree.Node, tag string) bool {
	for _, c := range root.Children {
		if c.Tag == tag {
			return true
		}
		if hasDescendant(c, tag) {
			return true
		}
	}
	return false
}

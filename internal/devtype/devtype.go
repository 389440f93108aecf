// Package devtype defines the device-type and context tagged values
// used throughout the engine.
package devtype

import "fmt"

// DeviceType distinguishes the two PAN-OS device kinds the engine
// understands.
type DeviceType string

const (
	// Firewall is a standalone PAN-OS firewall configuration.
	Firewall DeviceType = "firewall"
	// Panorama is a Panorama management-plane configuration.
	Panorama DeviceType = "panorama"
)

// String implements fmt.Stringer.
func (d DeviceType) String() string {
	return string(d)
}

// IsValid reports whether d is a recognized device type.
func (d DeviceType) IsValid() bool {
	return d == Firewall || d == Panorama
}

// ContextKind tags which variant a Context value holds.
type ContextKind string

const (
	// KindShared is the Panorama/firewall shared scope.
	KindShared ContextKind = "shared"
	// KindDeviceGroup is a named Panorama device group.
	KindDeviceGroup ContextKind = "device_group"
	// KindVsys is a named firewall vsys.
	KindVsys ContextKind = "vsys"
	// KindTemplate is a named Panorama template.
	KindTemplate ContextKind = "template"
)

// Context is a tagged value identifying the scope an entity lives in:
// shared, device_group(name), vsys(name), or template(name).
type Context struct {
	Kind ContextKind
	Name string // empty for Shared
}

// Shared returns the shared-scope context.
func Shared() Context {
	return Context{Kind: KindShared}
}

// DeviceGroup returns a device-group context for the named group.
func DeviceGroup(name string) Context {
	return Context{Kind: KindDeviceGroup, Name: name}
}

// Vsys returns a vsys context for the named vsys.
func Vsys(name string) Context {
	return Context{Kind: KindVsys, Name: name}
}

// Template returns a template context for the named template.
func Template(name string) Context {
	return Context{Kind: KindTemplate, Name: name}
}

// String renders a human-readable description, e.g. "device_group(DG1)".
func (c Context) String() string {
	if c.Kind == KindShared {
		return string(KindShared)
	}
	return fmt.Sprintf("%s(%s)", c.Kind, c.Name)
}

// ValidFor reports whether this context kind is legal for the given
// device type: device_group is illegal on a firewall,
// vsys is illegal on Panorama.
func (c Context) ValidFor(d DeviceType) bool {
	switch c.Kind {
	case KindDeviceGroup:
		return d == Panorama
	case KindVsys:
		return d == Firewall
	case KindTemplate:
		return d == Panorama
	case KindShared:
		return true
	default:
		return false
	}
}

package refgraph

import (
	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// deviceGroupParent returns the name of dgName's parent device group, or
// "" if it has none (a direct child of shared). Parentage is recorded on
// each device-group entry as a <parent-dg> leaf, the flat representation
// Panorama configs use instead of XML nesting.
func (g *Graph) deviceGroupParent(dgName string) (string, error) {
	container, err := g.deviceGroupContainer()
	if err != nil || container == nil {
		return "", err
	}
	dg := container.ChildNamed("entry", dgName)
	if dg == nil {
		return "", nil
	}
	return xmltree.TextOf(dg.Child("parent-dg")), nil
}

func (g *Graph) deviceGroupContainer() (*xmltree.Node, error) {
	devices, err := xmltree.FindOne(g.Root, "/config/devices/entry")
	if err != nil || devices == nil {
		return nil, err
	}
	return devices.Child("device-group"), nil
}

// AncestorChain returns ctx followed by each ancestor device group (for
// a device_group context) and finally shared, in lookup order. For
// shared/vsys/template contexts it returns just that context then shared
// (vsys/template scopes don't chain through other device groups).
func (g *Graph) AncestorChain(ctx devtype.Context) []devtype.Context {
	if ctx.Kind != devtype.KindDeviceGroup {
		if ctx.Kind == devtype.KindShared {
			return []devtype.Context{ctx}
		}
		return []devtype.Context{ctx, devtype.Shared()}
	}

	chain := []devtype.Context{ctx}
	seen := map[string]bool{ctx.Name: true}
	current := ctx.Name
	for {
		parent, err := g.deviceGroupParent(current)
		if err != nil || parent == "" || seen[parent] {
			break
		}
		chain = append(chain, devtype.DeviceGroup(parent))
		seen[parent] = true
		current = parent
	}
	chain = append(chain, devtype.Shared())
	return chain
}

// DescendantDeviceGroups returns every device-group name whose ancestor
// chain includes dgName (not including dgName itself), used by
// ReferencedBy to find every context that can see a dgName-scoped object.
func (g *Graph) DescendantDeviceGroups(dgName string) ([]string, error) {
	container, err := g.deviceGroupContainer()
	if err != nil || container == nil {
		return nil, err
	}

	var out []string
	for _, entry := range container.ChildrenByTag("entry") {
		name := entry.Name()
		if name == dgName {
			continue
		}
		chain := g.AncestorChain(devtype.DeviceGroup(name))
		for _, c := range chain {
			if c.Kind == devtype.KindDeviceGroup && c.Name == dgName {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}

// AllDeviceGroups returns the name of every device group defined in the
// tree.
func (g *Graph) AllDeviceGroups() ([]string, error) {
	container, err := g.deviceGroupContainer()
	if err != nil || container == nil {
		return nil, err
	}
	var out []string
	for _, entry := range container.ChildrenByTag("entry") {
		out = append(out, entry.Name())
	}
	return out, nil
}

package xpath

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/devtype"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextXPathShared(t *testing.T) {
	path, err := ContextXPath(devtype.Firewall, devtype.Shared())
	require.NoError(t, err)
	assert.Equal(t, "/config/shared", path)
}

func TestContextXPathVsys(t *testing.T) {
	path, err := ContextXPath(devtype.Firewall, devtype.Vsys("vsys1"))
	require.NoError(t, err)
	assert.Equal(t, "/config/devices/entry[@name='localhost.localdomain']/vsys/entry[@name='vsys1']", path)
}

func TestContextXPathDeviceGroup(t *testing.T) {
	path, err := ContextXPath(devtype.Panorama, devtype.DeviceGroup("DG1"))
	require.NoError(t, err)
	assert.Equal(t, "/config/devices/entry[@name='localhost.localdomain']/device-group/entry[@name='DG1']", path)
}

func TestContextXPathRejectsIllegalCombinations(t *testing.T) {
	_, err := ContextXPath(devtype.Firewall, devtype.DeviceGroup("DG1"))
	require.Error(t, err)
	assert.True(t, engineerr.Of(err, engineerr.InvalidContext))

	_, err = ContextXPath(devtype.Panorama, devtype.Vsys("vsys1"))
	require.Error(t, err)
	assert.True(t, engineerr.Of(err, engineerr.InvalidContext))
}

func TestObjectXPathContainerAndLeaf(t *testing.T) {
	v := panver.MustParse("11.0")

	container, err := ObjectXPath(pankind.Address, devtype.Firewall, devtype.Vsys("vsys1"), v, "")
	require.NoError(t, err)
	assert.Equal(t, "/config/devices/entry[@name='localhost.localdomain']/vsys/entry[@name='vsys1']/address", container)

	leaf, err := ObjectXPath(pankind.Address, devtype.Firewall, devtype.Vsys("vsys1"), v, "web-dns")
	require.NoError(t, err)
	assert.Equal(t, container+"/entry[@name='web-dns']", leaf)
}

func TestObjectXPathSecurityProfileNesting(t *testing.T) {
	v := panver.MustParse("11.0")
	path, err := ObjectXPath(pankind.ProfileVirus, devtype.Panorama, devtype.Shared(), v, "default")
	require.NoError(t, err)
	assert.Equal(t, "/config/shared/profiles/virus/entry[@name='default']", path)
}

func TestObjectXPathRejectsRuleKind(t *testing.T) {
	v := panver.MustParse("11.0")
	_, err := ObjectXPath(pankind.RuleSecurity, devtype.Firewall, devtype.Vsys("vsys1"), v, "")
	assert.Error(t, err)
}

func TestPolicyXPathFirewallUsesPlainRulebase(t *testing.T) {
	v := panver.MustParse("11.0")
	path, err := PolicyXPath(pankind.RuleSecurity, devtype.Firewall, devtype.Vsys("vsys1"), v, RulebaseNone, "allow-web")
	require.NoError(t, err)
	assert.Equal(t, "/config/devices/entry[@name='localhost.localdomain']/vsys/entry[@name='vsys1']/rulebase/security/rules/entry[@name='allow-web']", path)
}

func TestPolicyXPathPanoramaRequiresPrePost(t *testing.T) {
	v := panver.MustParse("11.0")

	_, err := PolicyXPath(pankind.RuleSecurity, devtype.Panorama, devtype.DeviceGroup("DG1"), v, RulebaseNone, "allow-web")
	assert.Error(t, err)

	pre, err := PolicyXPath(pankind.RuleSecurity, devtype.Panorama, devtype.DeviceGroup("DG1"), v, RulebasePre, "allow-web")
	require.NoError(t, err)
	assert.Contains(t, pre, "/pre-rulebase/security/rules/entry[@name='allow-web']")

	post, err := PolicyXPath(pankind.RuleSecurity, devtype.Panorama, devtype.DeviceGroup("DG1"), v, RulebasePost, "allow-web")
	require.NoError(t, err)
	assert.Contains(t, post, "/post-rulebase/security/rules/entry[@name='allow-web']")
}

func TestPolicyXPathRejectsObjectKind(t *testing.T) {
	v := panver.MustParse("11.0")
	_, err := PolicyXPath(pankind.Address, devtype.Firewall, devtype.Vsys("vsys1"), v, RulebaseNone, "")
	assert.Error(t, err)
}

func TestResolveVersionFallsBackToHighestKnownBelowRequested(t *testing.T) {
	resolved := resolveVersion(panver.MustParse("10.1.5"))
	assert.Equal(t, "10.1", resolved.String())
}

func TestResolveVersionFallsBackToNewestKnownWhenBelowAll(t *testing.T) {
	resolved := resolveVersion(panver.MustParse("9.0"))
	assert.Equal(t, "11.0", resolved.String())
}

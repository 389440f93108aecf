package validate

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, frag string) *xmltree.Node {
	t.Helper()
	n, err := xmltree.ParseFragmentString(frag)
	require.NoError(t, err)
	return n
}

func TestAddressIPNetmaskValid(t *testing.T) {
	a := entity.NewAddress(mustEntry(t, `<entry name="h1"><ip-netmask>10.0.0.1/32</ip-netmask></entry>`))
	assert.Empty(t, Address(a))
}

func TestAddressNoValueForm(t *testing.T) {
	a := entity.NewAddress(mustEntry(t, `<entry name="h1"><description>x</description></entry>`))
	errs := Address(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "exactly one value form")
}

func TestAddressFQDNInvalid(t *testing.T) {
	a := entity.NewAddress(mustEntry(t, `<entry name="h1"><fqdn>not a host</fqdn></entry>`))
	errs := Address(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "invalid fqdn")
}

func TestAddressIPRangeValid(t *testing.T) {
	a := entity.NewAddress(mustEntry(t, `<entry name="r1"><ip-range>10.0.0.1-10.0.0.10</ip-range></entry>`))
	assert.Empty(t, Address(a))
}

func TestAddressGroupStaticAndDynamicBothSet(t *testing.T) {
	g := entity.NewAddressGroup(mustEntry(t, `<entry name="g1">
		<static><member>h1</member></static>
		<dynamic><filter>'t1'</filter></dynamic>
	</entry>`))
	errs := AddressGroup(g)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must not be both")
}

func TestAddressGroupStaticEmpty(t *testing.T) {
	g := entity.NewAddressGroup(mustEntry(t, `<entry name="g1"><static></static></entry>`))
	errs := AddressGroup(g)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at least one member")
}

func TestAddressGroupDynamicFilterBalanced(t *testing.T) {
	g := entity.NewAddressGroup(mustEntry(t, `<entry name="g1"><dynamic><filter>'t1' and 't2'</filter></dynamic></entry>`))
	assert.Empty(t, AddressGroup(g))
}

func TestAddressGroupDynamicFilterUnbalancedQuotes(t *testing.T) {
	g := entity.NewAddressGroup(mustEntry(t, `<entry name="g1"><dynamic><filter>'t1 and t2</filter></dynamic></entry>`))
	errs := AddressGroup(g)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unbalanced quotes")
}

func TestAddressGroupDynamicFilterBadToken(t *testing.T) {
	g := entity.NewAddressGroup(mustEntry(t, `<entry name="g1"><dynamic><filter>'t1' xor 't2'</filter></dynamic></entry>`))
	errs := AddressGroup(g)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unexpected token")
}

func TestServiceMissingProtocol(t *testing.T) {
	s := entity.NewService(mustEntry(t, `<entry name="s1"></entry>`))
	errs := Service(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "tcp or udp")
}

func TestServiceValidPorts(t *testing.T) {
	s := entity.NewService(mustEntry(t, `<entry name="s1"><protocol><tcp><port>443</port></tcp></protocol></entry>`))
	assert.Empty(t, Service(s))
}

func TestServiceInvalidDestinationPort(t *testing.T) {
	s := entity.NewService(mustEntry(t, `<entry name="s1"><protocol><tcp><port>70000</port></tcp></protocol></entry>`))
	errs := Service(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "invalid destination port")
}

func TestServicePortRangeAndList(t *testing.T) {
	s := entity.NewService(mustEntry(t, `<entry name="s1"><protocol><tcp><port>80,443,8000-8080</port></tcp></protocol></entry>`))
	assert.Empty(t, Service(s))
}

func TestTagColorNumericValid(t *testing.T) {
	tag := entity.NewTag(mustEntry(t, `<entry name="t1"><color>color12</color></entry>`))
	assert.Empty(t, TagColor(tag))
}

func TestTagColorNamedValid(t *testing.T) {
	tag := entity.NewTag(mustEntry(t, `<entry name="t1"><color>red</color></entry>`))
	assert.Empty(t, TagColor(tag))
}

func TestTagColorUnrecognized(t *testing.T) {
	tag := entity.NewTag(mustEntry(t, `<entry name="t1"><color>mauve</color></entry>`))
	errs := TagColor(tag)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unrecognized color")
}

func TestTagColorAbsentIsOK(t *testing.T) {
	tag := entity.NewTag(mustEntry(t, `<entry name="t1"></entry>`))
	assert.Empty(t, TagColor(tag))
}

func TestExternalListMissingType(t *testing.T) {
	e := entity.NewExternalList(mustEntry(t, `<entry name="e1"></entry>`))
	errs := ExternalList(e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must specify a type")
}

func TestExternalListPredefinedSkipsURL(t *testing.T) {
	e := entity.NewExternalList(mustEntry(t, `<entry name="e1"><type><predefined-ip></predefined-ip></type></entry>`))
	assert.Empty(t, ExternalList(e))
}

func TestExternalListBadURLScheme(t *testing.T) {
	e := entity.NewExternalList(mustEntry(t, `<entry name="e1"><type><ip><url>ftp://example.com/list.txt</url></ip></type></entry>`))
	errs := ExternalList(e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must start with")
}

func TestExternalListGoodURLScheme(t *testing.T) {
	e := entity.NewExternalList(mustEntry(t, `<entry name="e1"><type><ip><url>https://example.com/list.txt</url></ip></type></entry>`))
	assert.Empty(t, ExternalList(e))
}

func TestScheduleRecurringValid(t *testing.T) {
	s := entity.NewSchedule(mustEntry(t, `<entry name="sch1">
		<schedule-type><recurring><daily><member>08:00-17:00</member></daily></recurring></schedule-type>
	</entry>`))
	assert.Empty(t, Schedule(s))
}

func TestScheduleRecurringInvalidRange(t *testing.T) {
	s := entity.NewSchedule(mustEntry(t, `<entry name="sch1">
		<schedule-type><recurring><daily><member>8am-5pm</member></daily></recurring></schedule-type>
	</entry>`))
	errs := Schedule(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "invalid time range")
}

func TestScheduleNeitherFormSet(t *testing.T) {
	s := entity.NewSchedule(mustEntry(t, `<entry name="sch1"><schedule-type></schedule-type></entry>`))
	errs := Schedule(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must be recurring or non-recurring")
}

func TestSecurityProfileGroupEmpty(t *testing.T) {
	g := entity.NewSecurityProfileGroup(mustEntry(t, `<entry name="g1"></entry>`))
	errs := SecurityProfileGroup(g)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at least one profile")
}

func TestSecurityProfileGroupWithVirus(t *testing.T) {
	g := entity.NewSecurityProfileGroup(mustEntry(t, `<entry name="g1"><virus><member>default</member></virus></entry>`))
	assert.Empty(t, SecurityProfileGroup(g))
}

func TestNodeDispatchesByKind(t *testing.T) {
	ok, errs := Node(pankind.Address, mustEntry(t, `<entry name="h1"><ip-netmask>10.0.0.1/32</ip-netmask></entry>`))
	assert.True(t, ok)
	assert.Empty(t, errs)
}

package criteria

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

const containerFixture = `<address>
  <entry name="web">
    <ip-netmask>10.0.0.1/32</ip-netmask>
    <description>front door</description>
    <tag><member>prod</member><member>dmz</member></tag>
  </entry>
  <entry name="db">
    <ip-netmask>10.0.0.2/32</ip-netmask>
    <tag><member>prod</member></tag>
  </entry>
  <entry name="legacy">
    <fqdn>old.example.com</fqdn>
  </entry>
</address>`

func parseContainer(t *testing.T) *xmltree.Node {
	t.Helper()
	n, err := xmltree.ParseFragmentString(containerFixture)
	require.NoError(t, err)
	return n
}

func TestMatchByName(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"name": "web"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "web", matches[0].Name())
}

func TestMatchByNameMembership(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"name": []string{"web", "db"}})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMatchByScalarChildText(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"ip-netmask": "10.0.0.2/32"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "db", matches[0].Name())
}

func TestMatchHasTag(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"has-tag": "dmz"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "web", matches[0].Name())
}

func TestMatchHasTagRejectsNonString(t *testing.T) {
	c := parseContainer(t)
	_, err := Filter(c, Criteria{"has-tag": 7})
	assert.Error(t, err)
}

func TestMatchValueToken(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"value": "old.example.com"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "legacy", matches[0].Name())
}

func TestMatchXPathPredicate(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"xpath:fqdn": true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "legacy", matches[0].Name())
}

func TestMatchConjunction(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"has-tag": "prod", "ip-netmask": "10.0.0.1/32"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "web", matches[0].Name())
}

func TestEmptyCriteriaMatchesAll(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestMatchMemberListMembership(t *testing.T) {
	c := parseContainer(t)
	matches, err := Filter(c, Criteria{"tag": "dmz"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "web", matches[0].Name())
}

func TestLoadFileParsesYAML(t *testing.T) {
	crit, err := LoadFile(strings.NewReader("name: web\nhas-tag: prod\n"))
	require.NoError(t, err)
	assert.Equal(t, "web", crit["name"])
	assert.Equal(t, "prod", crit["has-tag"])
}

func TestLoadFileEmptyInput(t *testing.T) {
	crit, err := LoadFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, crit)
}

func TestLoadFileMalformedYAML(t *testing.T) {
	_, err := LoadFile(strings.NewReader("name: [unclosed"))
	assert.Error(t, err)
}

package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `<config version="11.0">
  <devices>
    <entry name="localhost.localdomain">
      <vsys>
        <entry name="vsys1">
          <address>
            <entry name="web-dns">
              <ip-netmask>10.0.0.1/32</ip-netmask>
              <tag><member>dns</member></tag>
            </entry>
          </address>
        </entry>
      </vsys>
    </entry>
  </devices>
</config>`

func TestParseBuildsTree(t *testing.T) {
	doc, err := ParseString(sampleConfig)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	assert.Equal(t, "config", doc.Root.Tag)

	vsysEntry := doc.Root.Child("devices").Child("entry").Child("vsys").Child("entry")
	require.NotNil(t, vsysEntry)
	assert.Equal(t, "vsys1", vsysEntry.Name())

	addr := vsysEntry.Child("address").ChildNamed("entry", "web-dns")
	require.NotNil(t, addr)
	assert.Equal(t, "10.0.0.1/32", TextOf(addr.Child("ip-netmask")))
}

func TestParseRejectsNonConfigRoot(t *testing.T) {
	_, err := ParseString(`<address><entry name="x"/></address>`)
	assert.Error(t, err)
}

func TestParseFragmentAcceptsArbitraryRoot(t *testing.T) {
	root, err := ParseFragmentString(`<entry name="web-dns"><ip-netmask>10.0.0.1/32</ip-netmask></entry>`)
	require.NoError(t, err)
	assert.Equal(t, "entry", root.Tag)
	assert.Equal(t, "web-dns", root.Name())
}

func TestParseUnbalancedXML(t *testing.T) {
	_, err := ParseFragmentString(`<entry name="x"></wrong>`)
	assert.Error(t, err)
}

package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementToDictAndBack(t *testing.T) {
	original, err := ParseFragmentString(`<entry name="web-dns"><ip-netmask>10.0.0.1/32</ip-netmask></entry>`)
	require.NoError(t, err)

	dict, err := ElementToDict(original)
	require.NoError(t, err)
	require.NotEmpty(t, dict)

	roundTripped, err := DictToElement(dict)
	require.NoError(t, err)
	assert.Equal(t, "entry", roundTripped.Tag)
	assert.Equal(t, "web-dns", roundTripped.Name())
	assert.Equal(t, "10.0.0.1/32", TextOf(roundTripped.Child("ip-netmask")))
}

package versionadapt

import (
	"testing"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/pankind"
	"github.com/ancoleman/panflow-sub001/internal/panver"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptRemovesUnsupportedSecurityElements(t *testing.T) {
	el, err := xmltree.ParseFragmentString(`<entry name="r1">
		<rule-type>interzone</rule-type>
		<ssl-decrypt-mirror>yes</ssl-decrypt-mirror>
		<url-category-match>yes</url-category-match>
		<disable-server-response-inspection>yes</disable-server-response-inspection>
		<action>allow</action>
	</entry>`)
	require.NoError(t, err)

	target := panver.MustParse("10.1")
	_, err = Adapt(pankind.Default, el, pankind.RuleSecurity, target, Options{})
	require.NoError(t, err)

	assert.Nil(t, el.Child("rule-type"))
	assert.Nil(t, el.Child("ssl-decrypt-mirror"))
	assert.Nil(t, el.Child("url-category-match"))
	assert.Nil(t, el.Child("disable-server-response-inspection"))
	assert.NotNil(t, el.Child("action"))
}

func TestAdaptSynthesizesNATFallback(t *testing.T) {
	el, err := xmltree.ParseFragmentString(`<entry name="nat1"></entry>`)
	require.NoError(t, err)

	target := panver.MustParse("10.2")
	_, err = Adapt(pankind.Default, el, pankind.RuleNAT, target, Options{})
	require.NoError(t, err)

	assert.Equal(t, "none", xmltree.TextOf(el.Child("fallback")))
}

func TestAdaptRemovesFallbackWhenDowngrading(t *testing.T) {
	el, err := xmltree.ParseFragmentString(`<entry name="nat1"><fallback>none</fallback></entry>`)
	require.NoError(t, err)

	target := panver.MustParse("10.1")
	_, err = Adapt(pankind.Default, el, pankind.RuleNAT, target, Options{})
	require.NoError(t, err)

	assert.Nil(t, el.Child("fallback"))
}

func TestAdaptMissingRequiredFailsNonTolerant(t *testing.T) {
	el, err := xmltree.ParseFragmentString(`<entry name="nat1"></entry>`)
	require.NoError(t, err)

	target := panver.MustParse("10.2")
	diags, err := Adapt(pankind.Catalog{
		pankind.RuleNAT: {"something-required": {RequiredSince: "10.2"}},
	}, el, pankind.RuleNAT, target, Options{})
	require.Error(t, err)
	assert.True(t, engineerr.Of(err, engineerr.VersionIncompatible))
	assert.Len(t, diags, 1)
}

func TestAdaptMissingRequiredTolerant(t *testing.T) {
	el, err := xmltree.ParseFragmentString(`<entry name="x"></entry>`)
	require.NoError(t, err)

	target := panver.MustParse("10.2")
	diags, err := Adapt(pankind.Catalog{
		pankind.RuleNAT: {"something-required": {RequiredSince: "10.2"}},
	}, el, pankind.RuleNAT, target, Options{Tolerant: true})
	require.NoError(t, err)
	assert.Len(t, diags, 1)
}

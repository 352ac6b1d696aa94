package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarassist/internal/domain"
)

func TestParseClassification(t *testing.T) {
	c, diags, err := ParseClassification("```json\n{\"category\": \"cryosphere\", \"topic\": \"Sea Ice\", \"iso_topic\": \"oceans\"}\n```")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "cryosphere", c.Category)

	// Invalid enums are rejected, not replaced.
	c, diags, err = ParseClassification(`{"category": "volcanoes", "iso_topic": "oceans"}`)
	require.NoError(t, err)
	assert.True(t, HasErrors(diags))
	assert.Equal(t, "volcanoes", c.Category, "candidate must be preserved for the diagnostics")

	_, _, err = ParseClassification("I'm sorry, I cannot classify this.")
	assert.ErrorIs(t, err, ErrNoStructure)
}

func TestParseKeywordsDedupesAndCaps(t *testing.T) {
	raw := `["sea ice", "Sea Ice", "thickness", "a", "b", "c", "d", "e", "f", "g", "h", "i"]`
	keywords, diags, err := ParseKeywords(raw)
	require.NoError(t, err)
	assert.Len(t, keywords, domain.MaxKeywords)
	assert.Equal(t, "sea ice", keywords[0])
	assert.NotContains(t, keywords, "Sea Ice", "case-insensitive duplicate must be dropped")
	assert.False(t, HasErrors(diags))
}

func TestParseQualityClampsAndDerivesGrade(t *testing.T) {
	q, diags, err := ParseQuality(`{"score": "120", "suggestions": ["shorten it"]}`)
	require.NoError(t, err)
	assert.False(t, HasErrors(diags))
	assert.Equal(t, 100, q.Score)
	assert.Equal(t, "excellent", q.Grade)

	q, _, err = ParseQuality(`{"score": 45, "grade": "FAIR"}`)
	require.NoError(t, err)
	assert.Equal(t, "fair", q.Grade)
}

func TestParseSpatialDefaultsAndRejection(t *testing.T) {
	// Missing coordinates fall back to the expedition extent.
	s, diags, err := ParseSpatial(`{"zone_type": "bounding_box", "location_name": "Maitri Station"}`, domain.ExpeditionAntarctic)
	require.NoError(t, err)
	assert.False(t, HasErrors(diags))
	assert.Equal(t, domain.ExpeditionBBox(domain.ExpeditionAntarctic), s.Bounds)
	assert.Equal(t, "Maitri Station", s.LocationName)

	// Out-of-range coordinates are rejected, not clamped.
	s, diags, err = ParseSpatial(`{"north": -60, "south": -70, "east": 200, "west": 190}`, domain.ExpeditionAntarctic)
	require.NoError(t, err)
	assert.True(t, HasErrors(diags))
	assert.Equal(t, 200.0, s.Bounds.East, "candidate preserved for diagnostics")

	// Mis-ordered edges are rejected.
	_, diags, err = ParseSpatial(`{"north": -70, "south": -60, "east": 80, "west": 70}`, domain.ExpeditionAntarctic)
	require.NoError(t, err)
	assert.True(t, HasErrors(diags))
}

func TestParseSpatialWarnsOnUnparseableCoordinate(t *testing.T) {
	s, diags, err := ParseSpatial(`{"north": "abc", "south": -70, "east": 80, "west": 70}`, domain.ExpeditionAntarctic)
	require.NoError(t, err)
	assert.False(t, HasErrors(diags), "the fallback value is still usable")
	require.True(t, HasWarnings(diags), "a discarded coordinate must be reported")

	var found bool
	for _, d := range diags {
		if d.Field == "bounds.north" && d.Severity == SeverityWarning {
			found = true
		}
	}
	assert.True(t, found, "warning should name the discarded coordinate")
	assert.Equal(t, domain.ExpeditionBBox(domain.ExpeditionAntarctic).North, s.Bounds.North,
		"the expedition default fills in for the discard")
}

func TestParsePrefillDerivesLocation(t *testing.T) {
	raw := `{
		"classification": {"category": "cryosphere", "topic": "Glaciers/Ice Sheets", "iso_topic": "geoscientificInformation"},
		"keywords": ["glacier", "mass balance"],
		"abstract_quality": {"score": 70, "grade": "good"},
		"spatial": {"north": 35, "south": 27, "east": 95, "west": 75, "zone_type": "bounding_box", "subregion": "Chhota Shigri"}
	}`
	p, diags, err := ParsePrefill(raw, domain.ExpeditionHimalaya)
	require.NoError(t, err)
	assert.False(t, HasErrors(diags))
	assert.Equal(t, "region", p.Location.Category)
	assert.Equal(t, "Himalaya", p.Location.Place)
	assert.Equal(t, "Chhota Shigri", p.Location.Subregion)
	assert.Equal(t, []string{"glacier", "mass balance"}, p.Keywords)
}

func TestParseTitleFreeTextFallback(t *testing.T) {
	title, diags, err := ParseTitle("**Glacier mass balance in the Western Himalaya, 2015-2023**\nLet me know if you want variants.")
	require.NoError(t, err)
	assert.False(t, HasErrors(diags))
	assert.Equal(t, "Glacier mass balance in the Western Himalaya, 2015-2023", title.Title)

	title, _, err = ParseTitle(`{"title": "Sea ice thickness at Maitri", "alternatives": ["Alt one", "Alt two", "Alt three"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Sea ice thickness at Maitri", title.Title)
	assert.Len(t, title.Alternatives, 2, "alternatives are capped at two")
}

func TestParseResolutionHasNoProseFallback(t *testing.T) {
	_, _, err := ParseResolution("Roughly one kilometre, measured daily.")
	assert.True(t, errors.Is(err, ErrNoStructure))
}

func TestParseQueryFieldsDropsInvalidEnums(t *testing.T) {
	raw := `{"keywords": "glacier mass balance", "expedition": "himalaya", "category": "made_up", "year": "2024"}`
	q, diags, err := ParseQueryFields(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpeditionHimalaya, q.Expedition)
	assert.Equal(t, 2024, q.Year)
	assert.Empty(t, q.Category, "invalid enum must be dropped")
	assert.True(t, HasWarnings(diags))
	assert.False(t, HasErrors(diags), "a dropped filter never fails the search")
	assert.Equal(t, "glacier mass balance", q.Keywords)
}

func TestParseQueryFieldsDropsOutOfRangeYear(t *testing.T) {
	q, diags, err := ParseQueryFields(`{"keywords": "ozone", "year": 1950}`)
	require.NoError(t, err)
	assert.Zero(t, q.Year)
	assert.True(t, HasWarnings(diags))
}

func TestParseSuggestions(t *testing.T) {
	raw := `{"corrected_query": "sea ice thickness", "suggestions": ["ice cores", "snow cover", "permafrost", "aurora", "fifth"], "off_topic": false}`
	s, _, err := ParseSuggestions(raw)
	require.NoError(t, err)
	assert.Equal(t, "sea ice thickness", s.CorrectedQuery)
	assert.Len(t, s.Suggestions, 4, "suggestions are capped at four")
	assert.False(t, s.OffTopic)
}

func TestParseAnswer(t *testing.T) {
	a, _, err := ParseAnswer("The portal has **two** relevant datasets [ID: 12] and [ID: 7].")
	require.NoError(t, err)
	assert.False(t, a.Unrelated)
	assert.NotContains(t, a.Text, "**")

	a, _, err = ParseAnswer("UNRELATED: This question is about football scores.")
	require.NoError(t, err)
	assert.True(t, a.Unrelated)
	assert.NotContains(t, a.Text, "UNRELATED:")

	_, _, err = ParseAnswer("   ")
	assert.Error(t, err)
}

func TestParseSummary(t *testing.T) {
	s, diags, err := ParseSummary("The top results cover **glacier mass balance** in the Himalaya from 2020 to 2024.")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "The top results cover glacier mass balance in the Himalaya from 2020 to 2024.", s.Text)

	_, _, err = ParseSummary("  \n ")
	assert.ErrorIs(t, err, ErrNoStructure)
}

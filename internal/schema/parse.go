package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"polarassist/internal/domain"
)

// Parse functions bind extraction, decoding and validation per task. A
// returned error means no candidate structure could be extracted at all
// (a malformed response); diagnostics report what was wrong with the
// extracted candidate.

func decode(raw string, dst any) error {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("decode extracted JSON: %w (%w)", err, ErrNoStructure)
	}
	return nil
}

// ParseClassification decodes and validates the classify task output.
// Enumerated values are never salvaged from free text.
func ParseClassification(raw string) (Classification, []Diagnostic, error) {
	var wire struct {
		Category string `json:"category"`
		Topic    string `json:"topic"`
		ISOTopic string `json:"iso_topic"`
	}
	if err := decode(raw, &wire); err != nil {
		return Classification{}, nil, err
	}
	c := Classification{
		Category: strings.TrimSpace(wire.Category),
		Topic:    strings.TrimSpace(wire.Topic),
		ISOTopic: strings.TrimSpace(wire.ISOTopic),
	}
	return c, ValidateClassification(c), nil
}

// ParseKeywords decodes and validates the keyword task output, truncating
// to the portal's keyword budget.
func ParseKeywords(raw string) ([]string, []Diagnostic, error) {
	var wire stringList
	if err := decode(raw, &wire); err != nil {
		return nil, nil, err
	}
	keywords := dedupe([]string(wire))
	if len(keywords) > domain.MaxKeywords {
		keywords = keywords[:domain.MaxKeywords]
	}
	return keywords, ValidateKeywords(keywords), nil
}

// ParseQuality decodes and validates the abstract-quality task output.
// A missing grade is derived from the score; everything else is validated
// as returned.
func ParseQuality(raw string) (QualityReport, []Diagnostic, error) {
	var wire struct {
		Score       flexInt    `json:"score"`
		Grade       string     `json:"grade"`
		Suggestions stringList `json:"suggestions"`
	}
	if err := decode(raw, &wire); err != nil {
		return QualityReport{}, nil, err
	}

	q := QualityReport{
		Score:       clampScore(int(wire.Score)),
		Grade:       strings.ToLower(strings.TrimSpace(wire.Grade)),
		Suggestions: wire.Suggestions,
	}
	if q.Grade == "" {
		q.Grade = gradeForScore(q.Score)
	}
	if len(q.Suggestions) > 4 {
		q.Suggestions = q.Suggestions[:4]
	}
	return q, ValidateQuality(q), nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func gradeForScore(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

type spatialWire struct {
	North        flexFloat `json:"north"`
	South        flexFloat `json:"south"`
	East         flexFloat `json:"east"`
	West         flexFloat `json:"west"`
	ZoneType     string    `json:"zone_type"`
	LocationName string    `json:"location_name"`
	Subregion    string    `json:"subregion"`
}

func (w spatialWire) toExtent(exp domain.Expedition) (SpatialExtent, []Diagnostic) {
	// Absent coordinates fall back to the expedition's default extent;
	// out-of-range numbers are kept so validation rejects them. A coordinate
	// that was present but not a number also falls back, with a warning so
	// the discard is visible.
	def := domain.ExpeditionBBox(exp)
	b := def
	var diags []Diagnostic
	for _, c := range []struct {
		name string
		wire flexFloat
		dst  *float64
	}{
		{"north", w.North, &b.North},
		{"south", w.South, &b.South},
		{"east", w.East, &b.East},
		{"west", w.West, &b.West},
	} {
		switch {
		case c.wire.Set:
			*c.dst = c.wire.Value
		case c.wire.Bad:
			diags = append(diags, warnf("bounds."+c.name, "numeric",
				"unparseable coordinate discarded, expedition default used"))
		}
	}

	zone := domain.ZoneType(strings.TrimSpace(w.ZoneType))
	if zone == "" {
		zone = domain.ZoneBoundingBox
	}
	return SpatialExtent{
		Bounds:       b,
		ZoneType:     zone,
		LocationName: strings.TrimSpace(w.LocationName),
		Subregion:    strings.TrimSpace(w.Subregion),
	}, diags
}

// ParseSpatial decodes and validates the spatial-extraction task output.
// Coordinates the provider omitted default to the expedition's bounding
// box; out-of-range or mis-ordered coordinates are rejected, not clamped.
func ParseSpatial(raw string, exp domain.Expedition) (SpatialExtent, []Diagnostic, error) {
	var wire spatialWire
	if err := decode(raw, &wire); err != nil {
		return SpatialExtent{}, nil, err
	}
	s, diags := wire.toExtent(exp)
	return s, append(diags, ValidateSpatial(s)...), nil
}

// ParsePrefill decodes and validates the combined form pre-fill output and
// derives the location hint from the expedition type.
func ParsePrefill(raw string, exp domain.Expedition) (PrefillResult, []Diagnostic, error) {
	var wire struct {
		Classification struct {
			Category string `json:"category"`
			Topic    string `json:"topic"`
			ISOTopic string `json:"iso_topic"`
		} `json:"classification"`
		Keywords stringList `json:"keywords"`
		Quality  struct {
			Score       flexInt    `json:"score"`
			Grade       string     `json:"grade"`
			Suggestions stringList `json:"suggestions"`
		} `json:"abstract_quality"`
		Spatial spatialWire `json:"spatial"`
	}
	if err := decode(raw, &wire); err != nil {
		return PrefillResult{}, nil, err
	}

	spatial, spatialDiags := wire.Spatial.toExtent(exp)
	out := PrefillResult{
		Classification: Classification{
			Category: strings.TrimSpace(wire.Classification.Category),
			Topic:    strings.TrimSpace(wire.Classification.Topic),
			ISOTopic: strings.TrimSpace(wire.Classification.ISOTopic),
		},
		Keywords: dedupe([]string(wire.Keywords)),
		Quality: QualityReport{
			Score:       clampScore(int(wire.Quality.Score)),
			Grade:       strings.ToLower(strings.TrimSpace(wire.Quality.Grade)),
			Suggestions: wire.Quality.Suggestions,
		},
		Spatial: spatial,
	}
	if len(out.Keywords) > domain.MaxKeywords {
		out.Keywords = out.Keywords[:domain.MaxKeywords]
	}
	if out.Quality.Grade == "" {
		out.Quality.Grade = gradeForScore(out.Quality.Score)
	}
	if len(out.Quality.Suggestions) > 4 {
		out.Quality.Suggestions = out.Quality.Suggestions[:4]
	}

	locCat, locPlace := domain.ExpeditionLocation(exp)
	out.Location = LocationHint{
		Category:  locCat,
		Place:     locPlace,
		Subregion: out.Spatial.Subregion,
	}

	diags := spatialDiags
	diags = append(diags, ValidateClassification(out.Classification)...)
	diags = append(diags, ValidateKeywords(out.Keywords)...)
	diags = append(diags, ValidateQuality(out.Quality)...)
	diags = append(diags, ValidateSpatial(out.Spatial)...)
	return out, diags, nil
}

// ParseReviewNotes decodes and validates reviewer guidance output.
func ParseReviewNotes(raw string) (ReviewNotes, []Diagnostic, error) {
	var wire struct {
		CompletenessScore flexInt    `json:"completeness_score"`
		Issues            stringList `json:"issues"`
		Suggestions       stringList `json:"suggestions"`
		DraftNotes        string     `json:"draft_notes"`
	}
	if err := decode(raw, &wire); err != nil {
		return ReviewNotes{}, nil, err
	}
	r := ReviewNotes{
		CompletenessScore: int(wire.CompletenessScore),
		Issues:            wire.Issues,
		Suggestions:       wire.Suggestions,
		DraftNotes:        strings.TrimSpace(wire.DraftNotes),
	}
	if len(r.Issues) > 6 {
		r.Issues = r.Issues[:6]
	}
	if len(r.Suggestions) > 6 {
		r.Suggestions = r.Suggestions[:6]
	}
	return r, ValidateReviewNotes(r), nil
}

// ParseTitle decodes and validates a generated title. Title generation
// tolerates prose: when no JSON is found the cleaned first line stands in
// as the candidate, and the length ceiling still applies to it.
func ParseTitle(raw string) (TitleSuggestion, []Diagnostic, error) {
	var wire struct {
		Title        string     `json:"title"`
		Alternatives stringList `json:"alternatives"`
	}
	if err := decode(raw, &wire); err != nil {
		line := firstLine(CleanFreeText(raw))
		if line == "" {
			return TitleSuggestion{}, nil, err
		}
		t := TitleSuggestion{Title: line}
		return t, ValidateTitleSuggestion(t), nil
	}

	t := TitleSuggestion{
		Title:        strings.TrimSpace(wire.Title),
		Alternatives: wire.Alternatives,
	}
	if len(t.Alternatives) > 2 {
		t.Alternatives = t.Alternatives[:2]
	}
	return t, ValidateTitleSuggestion(t), nil
}

// ParsePurpose decodes and validates a generated purpose statement, with
// the same prose fallback as titles.
func ParsePurpose(raw string) (PurposeSuggestion, []Diagnostic, error) {
	var wire struct {
		Purpose string `json:"purpose"`
	}
	if err := decode(raw, &wire); err != nil {
		text := CleanFreeText(raw)
		if text == "" {
			return PurposeSuggestion{}, nil, err
		}
		p := PurposeSuggestion{Purpose: text}
		return p, ValidatePurposeValue(p.Purpose), nil
	}
	p := PurposeSuggestion{Purpose: strings.TrimSpace(wire.Purpose)}
	return p, ValidatePurposeValue(p.Purpose), nil
}

// ParseResolution decodes and validates resolution suggestions. Numeric
// DMS fields must come from structure; there is no prose fallback.
func ParseResolution(raw string) (ResolutionSuggestion, []Diagnostic, error) {
	var wire struct {
		LatDeg          flexInt `json:"lat_deg"`
		LatMin          flexInt `json:"lat_min"`
		LatSec          flexInt `json:"lat_sec"`
		LonDeg          flexInt `json:"lon_deg"`
		LonMin          flexInt `json:"lon_min"`
		LonSec          flexInt `json:"lon_sec"`
		HorizontalRange string  `json:"horizontal_resolution_range"`
		Vertical        string  `json:"vertical_resolution"`
		VerticalRange   string  `json:"vertical_resolution_range"`
		Temporal        string  `json:"temporal_resolution"`
		TemporalRange   string  `json:"temporal_resolution_range"`
	}
	if err := decode(raw, &wire); err != nil {
		return ResolutionSuggestion{}, nil, err
	}
	r := ResolutionSuggestion{
		LatDeg: int(wire.LatDeg), LatMin: int(wire.LatMin), LatSec: int(wire.LatSec),
		LonDeg: int(wire.LonDeg), LonMin: int(wire.LonMin), LonSec: int(wire.LonSec),
		HorizontalRange: strings.TrimSpace(wire.HorizontalRange),
		Vertical:        strings.TrimSpace(wire.Vertical),
		VerticalRange:   strings.TrimSpace(wire.VerticalRange),
		Temporal:        strings.TrimSpace(wire.Temporal),
		TemporalRange:   strings.TrimSpace(wire.TemporalRange),
	}
	return r, ValidateResolution(r), nil
}

// ParseQueryFields decodes the query-understanding output. Enumerated fields
// that fail membership are dropped with a warning — the free-text keywords
// always survive, so a bad extraction degrades to plain search instead of
// failing it.
func ParseQueryFields(raw string) (ParsedQuery, []Diagnostic, error) {
	var wire struct {
		Keywords   string  `json:"keywords"`
		Expedition string  `json:"expedition"`
		Category   string  `json:"category"`
		ISOTopic   string  `json:"iso_topic"`
		Year       flexInt `json:"year"`
	}
	if err := decode(raw, &wire); err != nil {
		return ParsedQuery{}, nil, err
	}

	var diags []Diagnostic
	q := ParsedQuery{Keywords: truncateRunes(strings.TrimSpace(wire.Keywords), 200)}

	if exp := domain.Expedition(strings.TrimSpace(wire.Expedition)); exp != "" {
		if domain.ValidExpedition(exp) {
			q.Expedition = exp
		} else {
			diags = append(diags, warnf("expedition", "enum", "dropped unknown expedition %q", exp))
		}
	}
	if cat := strings.TrimSpace(wire.Category); cat != "" {
		if domain.ValidCategory(cat) {
			q.Category = cat
		} else {
			diags = append(diags, warnf("category", "enum", "dropped unknown category %q", cat))
		}
	}
	if iso := strings.TrimSpace(wire.ISOTopic); iso != "" {
		if domain.ValidISOTopic(iso) {
			q.ISOTopic = iso
		} else {
			diags = append(diags, warnf("iso_topic", "enum", "dropped unknown ISO topic %q", iso))
		}
	}
	if y := int(wire.Year); y != 0 {
		if len(ValidateYear(y)) == 0 {
			q.Year = y
		} else {
			diags = append(diags, warnf("year", "range", "dropped year %d outside %d-%d", y, domain.MinYear, domain.MaxYear))
		}
	}
	return q, diags, nil
}

// ParseSuggestions decodes zero-result recovery output.
func ParseSuggestions(raw string) (QuerySuggestions, []Diagnostic, error) {
	var wire struct {
		CorrectedQuery string     `json:"corrected_query"`
		Suggestions    stringList `json:"suggestions"`
		OffTopic       bool       `json:"off_topic"`
	}
	if err := decode(raw, &wire); err != nil {
		return QuerySuggestions{}, nil, err
	}
	s := QuerySuggestions{
		CorrectedQuery: truncateRunes(strings.TrimSpace(wire.CorrectedQuery), 200),
		OffTopic:       wire.OffTopic,
	}
	for _, sug := range wire.Suggestions {
		s.Suggestions = append(s.Suggestions, truncateRunes(sug, 100))
		if len(s.Suggestions) == 4 {
			break
		}
	}
	return s, nil, nil
}

// ParseSummary cleans the search-summary prose. The task asks for plain
// text, so markdown that slipped through is scrubbed rather than rejected.
func ParseSummary(raw string) (ResultSummary, []Diagnostic, error) {
	text := CleanFreeText(raw)
	if text == "" {
		return ResultSummary{}, nil, fmt.Errorf("empty summary: %w", ErrNoStructure)
	}
	return ResultSummary{Text: text}, nil, nil
}

// ParseAnswer cleans a question-answering completion and detects the
// unrelated-question sentinel.
func ParseAnswer(raw string) (AnswerText, []Diagnostic, error) {
	text := CleanFreeText(raw)
	if text == "" {
		return AnswerText{}, nil, fmt.Errorf("empty answer: %w", ErrNoStructure)
	}

	a := AnswerText{Text: text}
	if rest, ok := strings.CutPrefix(text, "UNRELATED:"); ok {
		a.Unrelated = true
		a.Text = strings.TrimSpace(rest)
	} else {
		lower := strings.ToLower(text)
		for _, phrase := range unrelatedPhrases {
			if strings.Contains(lower, phrase) {
				a.Unrelated = true
				break
			}
		}
	}
	return a, nil, nil
}

// Common phrasings that signal the provider judged the question off-domain
// without using the sentinel.
var unrelatedPhrases = []string{
	"does not seem to be related",
	"not related to polar",
	"not relevant to polar",
	"not about polar",
	"unrelated to polar",
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

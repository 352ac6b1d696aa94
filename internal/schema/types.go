package schema

import (
	"encoding/json"
	"strconv"
	"strings"

	"polarassist/internal/domain"
)

// Typed task outputs. All are plain values: once parsed and validated they
// are never mutated, and re-validating a conformant value yields the same
// (empty) diagnostics.

// Classification is the classify task output.
type Classification struct {
	Category string `json:"category"`
	Topic    string `json:"topic"`
	ISOTopic string `json:"iso_topic"`
}

// QualityReport is the abstract-quality task output.
type QualityReport struct {
	Score       int      `json:"score"`
	Grade       string   `json:"grade"`
	Suggestions []string `json:"suggestions"`
}

// SpatialExtent is the spatial-extraction task output.
type SpatialExtent struct {
	Bounds       domain.BBox     `json:"bounds"`
	ZoneType     domain.ZoneType `json:"zone_type"`
	LocationName string          `json:"location_name"`
	Subregion    string          `json:"subregion"`
}

// LocationHint is derived from the expedition type during prefill.
type LocationHint struct {
	Category  string `json:"category"`
	Place     string `json:"place"`
	Subregion string `json:"subregion"`
}

// PrefillResult bundles the combined form pre-fill output.
type PrefillResult struct {
	Classification Classification `json:"classification"`
	Keywords       []string       `json:"keywords"`
	Quality        QualityReport  `json:"abstract_quality"`
	Spatial        SpatialExtent  `json:"spatial"`
	Location       LocationHint   `json:"location"`
}

// ReviewNotes is the reviewer-guidance task output.
type ReviewNotes struct {
	CompletenessScore int      `json:"completeness_score"`
	Issues            []string `json:"issues"`
	Suggestions       []string `json:"suggestions"`
	DraftNotes        string   `json:"draft_notes"`
}

// TitleSuggestion is the title-generation task output.
type TitleSuggestion struct {
	Title        string   `json:"title"`
	Alternatives []string `json:"alternatives"`
}

// PurposeSuggestion is the purpose-generation task output.
type PurposeSuggestion struct {
	Purpose string `json:"purpose"`
}

// ResolutionSuggestion is the resolution task output. DMS components are
// integers; range fields should come from the documented option lists.
type ResolutionSuggestion struct {
	LatDeg int `json:"lat_deg"`
	LatMin int `json:"lat_min"`
	LatSec int `json:"lat_sec"`
	LonDeg int `json:"lon_deg"`
	LonMin int `json:"lon_min"`
	LonSec int `json:"lon_sec"`

	HorizontalRange string `json:"horizontal_resolution_range"`
	Vertical        string `json:"vertical_resolution"`
	VerticalRange   string `json:"vertical_resolution_range"`
	Temporal        string `json:"temporal_resolution"`
	TemporalRange   string `json:"temporal_resolution_range"`
}

// ParsedQuery is the query-understanding task output.
type ParsedQuery struct {
	Keywords   string            `json:"keywords"`
	Expedition domain.Expedition `json:"expedition"`
	Category   string            `json:"category"`
	ISOTopic   string            `json:"iso_topic"`
	Year       int               `json:"year"`
}

// QuerySuggestions is the zero-result recovery task output.
type QuerySuggestions struct {
	CorrectedQuery string   `json:"corrected_query"`
	Suggestions    []string `json:"suggestions"`
	OffTopic       bool     `json:"off_topic"`
}

// ResultSummary is the search-summary task output: a short plain-text
// overview of the top results.
type ResultSummary struct {
	Text string `json:"text"`
}

// AnswerText is the question-answering task output before citation
// extraction.
type AnswerText struct {
	Text string `json:"text"`
	// Unrelated is set when the provider flagged the question as outside the
	// polar/cryosphere domain.
	Unrelated bool `json:"unrelated"`
}

// flexInt decodes a JSON number, numeric string, or float into an int.
// Providers routinely return "5" where 5 was asked for.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	// Unparseable numerics decode to zero; validation decides what that means.
	*f = 0
	return nil
}

// flexFloat decodes a JSON number or numeric string into a float64, with a
// presence flag so "absent" and "zero" stay distinguishable. Bad records a
// present-but-unparseable value so callers can report the discard.
type flexFloat struct {
	Value float64
	Set   bool
	Bad   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.Bad = true
		return nil
	}
	f.Value = v
	f.Set = true
	return nil
}

// stringList decodes a JSON array of anything into trimmed, non-empty
// strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			s = strings.Trim(string(item), `"`)
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

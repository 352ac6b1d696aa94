package schema

import (
	"unicode/utf8"

	"polarassist/internal/domain"
)

// Validators are pure and per-field. They are computed on the final
// candidate value, never on what the provider claims about its own output,
// and re-running one on a conformant value returns no diagnostics.

// ValidateTitleValue checks a dataset title candidate.
func ValidateTitleValue(title string) []Diagnostic {
	var diags []Diagnostic
	if title == "" {
		diags = append(diags, errorf("title", "required", "title is empty"))
	} else if n := utf8.RuneCountInString(title); n > domain.MaxTitleLen {
		diags = append(diags, errorf("title", "max_length", "title is %d characters; limit is %d", n, domain.MaxTitleLen))
	}
	return diags
}

// ValidateAbstractValue checks a dataset abstract candidate.
func ValidateAbstractValue(abstract string) []Diagnostic {
	var diags []Diagnostic
	if abstract == "" {
		diags = append(diags, errorf("abstract", "required", "abstract is empty"))
	} else if n := utf8.RuneCountInString(abstract); n > domain.MaxAbstractLen {
		diags = append(diags, errorf("abstract", "max_length", "abstract is %d characters; limit is %d", n, domain.MaxAbstractLen))
	}
	return diags
}

// ValidatePurposeValue checks a purpose statement candidate.
func ValidatePurposeValue(purpose string) []Diagnostic {
	var diags []Diagnostic
	if purpose == "" {
		diags = append(diags, errorf("purpose", "required", "purpose is empty"))
	} else if n := utf8.RuneCountInString(purpose); n > domain.MaxPurposeLen {
		diags = append(diags, errorf("purpose", "max_length", "purpose is %d characters; limit is %d", n, domain.MaxPurposeLen))
	}
	return diags
}

// ValidateBBox checks bounding box ranges and edge ordering.
func ValidateBBox(b domain.BBox) []Diagnostic {
	var diags []Diagnostic
	if b.West < -180 || b.West > 180 {
		diags = append(diags, errorf("west", "range", "west %g outside [-180,180]", b.West))
	}
	if b.East < -180 || b.East > 180 {
		diags = append(diags, errorf("east", "range", "east %g outside [-180,180]", b.East))
	}
	if b.South < -90 || b.South > 90 {
		diags = append(diags, errorf("south", "range", "south %g outside [-90,90]", b.South))
	}
	if b.North < -90 || b.North > 90 {
		diags = append(diags, errorf("north", "range", "north %g outside [-90,90]", b.North))
	}
	if b.West >= -180 && b.East <= 180 && b.West > b.East {
		diags = append(diags, errorf("west", "ordering", "west %g > east %g", b.West, b.East))
	}
	if b.South >= -90 && b.North <= 90 && b.South > b.North {
		diags = append(diags, errorf("south", "ordering", "south %g > north %g", b.South, b.North))
	}
	return diags
}

// ValidateYear checks a 4-digit year against the corpus range.
func ValidateYear(year int) []Diagnostic {
	if year < domain.MinYear || year > domain.MaxYear {
		return []Diagnostic{errorf("year", "range", "year %d outside %d-%d", year, domain.MinYear, domain.MaxYear)}
	}
	return nil
}

// ValidateClassification checks enum membership for all three fields.
// Invalid values are rejected with diagnostics, never coerced to a default.
func ValidateClassification(c Classification) []Diagnostic {
	var diags []Diagnostic
	if c.Category == "" {
		diags = append(diags, errorf("category", "required", "category is empty"))
	} else if !domain.ValidCategory(c.Category) {
		diags = append(diags, errorf("category", "enum", "%q is not a valid category key", c.Category))
	}
	if c.ISOTopic == "" {
		diags = append(diags, errorf("iso_topic", "required", "iso_topic is empty"))
	} else if !domain.ValidISOTopic(c.ISOTopic) {
		diags = append(diags, errorf("iso_topic", "enum", "%q is not a valid ISO topic key", c.ISOTopic))
	}
	if c.Topic != "" && domain.ValidCategory(c.Category) && !domain.ValidTopic(c.Category, c.Topic) {
		diags = append(diags, errorf("topic", "enum", "%q is not a topic of category %q", c.Topic, c.Category))
	}
	return diags
}

// ValidateKeywords checks a keyword list.
func ValidateKeywords(keywords []string) []Diagnostic {
	var diags []Diagnostic
	if len(keywords) == 0 {
		diags = append(diags, errorf("keywords", "required", "no keywords extracted"))
	}
	if len(keywords) > domain.MaxKeywords {
		diags = append(diags, warnf("keywords", "max_count", "%d keywords; portal accepts at most %d", len(keywords), domain.MaxKeywords))
	}
	return diags
}

// ValidateQuality checks a quality report.
func ValidateQuality(q QualityReport) []Diagnostic {
	var diags []Diagnostic
	if q.Score < 0 || q.Score > 100 {
		diags = append(diags, errorf("score", "range", "score %d outside 0-100", q.Score))
	}
	switch q.Grade {
	case "excellent", "good", "fair", "poor":
	default:
		diags = append(diags, errorf("grade", "enum", "%q is not a valid grade", q.Grade))
	}
	return diags
}

// ValidateSpatial checks a spatial extent.
func ValidateSpatial(s SpatialExtent) []Diagnostic {
	diags := ValidateBBox(s.Bounds)
	if !domain.ValidZoneType(s.ZoneType) {
		diags = append(diags, errorf("zone_type", "enum", "%q is not a valid zone type", s.ZoneType))
	}
	return diags
}

// ValidateReviewNotes checks reviewer guidance output.
func ValidateReviewNotes(r ReviewNotes) []Diagnostic {
	var diags []Diagnostic
	if r.CompletenessScore < 0 || r.CompletenessScore > 100 {
		diags = append(diags, errorf("completeness_score", "range", "score %d outside 0-100", r.CompletenessScore))
	}
	if r.DraftNotes == "" {
		diags = append(diags, warnf("draft_notes", "empty", "no draft notes produced"))
	}
	return diags
}

// ValidateTitleSuggestion checks a generated title and its alternatives.
// The primary title is required; alternatives are advisory.
func ValidateTitleSuggestion(t TitleSuggestion) []Diagnostic {
	diags := ValidateTitleValue(t.Title)
	for _, alt := range t.Alternatives {
		if utf8.RuneCountInString(alt) > domain.MaxTitleLen {
			diags = append(diags, warnf("alternatives", "max_length", "alternative title exceeds %d characters", domain.MaxTitleLen))
		}
	}
	return diags
}

// ValidateResolution checks a resolution suggestion. DMS component bounds
// and option-list membership are advisory: the portal documents them as
// typical ranges, not hard constraints.
func ValidateResolution(r ResolutionSuggestion) []Diagnostic {
	var diags []Diagnostic
	checkDMS := func(field string, deg, min, sec int) {
		if deg < 0 || deg > 180 {
			diags = append(diags, warnf(field, "typical_range", "degrees %d outside 0-180", deg))
		}
		if min < 0 || min > 59 {
			diags = append(diags, warnf(field, "typical_range", "minutes %d outside 0-59", min))
		}
		if sec < 0 || sec > 59 {
			diags = append(diags, warnf(field, "typical_range", "seconds %d outside 0-59", sec))
		}
	}
	checkDMS("lat_resolution", r.LatDeg, r.LatMin, r.LatSec)
	checkDMS("lon_resolution", r.LonDeg, r.LonMin, r.LonSec)

	if r.HorizontalRange != "" && !domain.TypicalHorizontalRange(r.HorizontalRange) {
		diags = append(diags, warnf("horizontal_resolution_range", "typical_range", "%q is not a documented option", r.HorizontalRange))
	}
	if r.VerticalRange != "" && !domain.TypicalVerticalRange(r.VerticalRange) {
		diags = append(diags, warnf("vertical_resolution_range", "typical_range", "%q is not a documented option", r.VerticalRange))
	}
	if r.TemporalRange != "" && !domain.TypicalTemporalRange(r.TemporalRange) {
		diags = append(diags, warnf("temporal_resolution_range", "typical_range", "%q is not a documented option", r.TemporalRange))
	}
	return diags
}

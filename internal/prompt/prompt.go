// Package prompt builds provider instructions for each assistance task.
// Builders are pure: same input, same output, no I/O and no randomness.
// Each template spells out the output schema and the domain constraints the
// response validator will enforce, so the model is told exactly the contract
// it is checked against.
package prompt

import (
	"fmt"
	"strings"

	"polarassist/internal/domain"
)

// Input is a rendered provider instruction plus its generation parameters.
type Input struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// How much of a long abstract the templates quote back to the provider.
const (
	abstractExcerptLen      = 1500
	abstractExcerptLenShort = 1000
)

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Classify asks for category, topic and ISO topic keys from the closed sets.
func Classify(title, abstract string, exp domain.Expedition) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific data classification expert for a national polar data repository.
Given a dataset title and abstract, classify it into the correct category, topic, and ISO topic.

DATASET TITLE: %s
DATASET ABSTRACT: %s
EXPEDITION TYPE: %s

AVAILABLE CATEGORIES (use the exact key):
%s

AVAILABLE ISO TOPICS (use the exact key):
%s

For the "topic" field, pick the most relevant scientific sub-topic based on the category.

Respond with ONLY valid JSON (no explanation):
{"category": "<category_key>", "topic": "<topic_name>", "iso_topic": "<iso_topic_key>"}`,
			title, truncate(abstract, abstractExcerptLenShort), exp,
			strings.Join(domain.Categories, ", "),
			strings.Join(domain.ISOTopics, ", ")),
		MaxTokens:   200,
		Temperature: 0.2,
	}
}

// Keywords asks for n GCMD-style keywords.
func Keywords(title, abstract, category string, n int) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific metadata expert for a national polar data repository.
Generate %d relevant GCMD-compatible scientific keywords for this polar research dataset.

TITLE: %s
ABSTRACT: %s
CATEGORY: %s

Requirements:
- Keywords should be relevant to polar/cryosphere science
- Include broader terms (e.g. "Glaciology") and specific terms (e.g. "Ice Core Analysis")
- Follow Global Change Master Directory (GCMD) keyword conventions
- Include geographic terms if applicable (e.g. "Antarctica", "Arctic Ocean")

Respond with ONLY a JSON array of keyword strings:
["keyword1", "keyword2", "keyword3", ...]`,
			n, title, truncate(abstract, abstractExcerptLenShort), category),
		MaxTokens:   300,
		Temperature: 0.4,
	}
}

// AbstractQuality asks for a 0-100 quality score with suggestions.
func AbstractQuality(title, abstract string, exp domain.Expedition) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific writing reviewer for a national polar data repository.
Evaluate the quality of this dataset abstract for a polar research data repository.

TITLE: %s
ABSTRACT: %s
EXPEDITION TYPE: %s

Score the abstract 0-100 based on these criteria:
1. COMPLETENESS - Does it mention: location, time period, methodology, key variables measured?
2. CLARITY - Is it clear and well-written?
3. SCIENTIFIC RIGOR - Does it use appropriate scientific terminology?
4. LENGTH - Is it adequate (ideally 150-800 characters)?
5. SPECIFICITY - Does it provide specific details, not just generic statements?

Respond with ONLY valid JSON:
{"score": <0-100>, "grade": "<excellent|good|fair|poor>", "suggestions": ["suggestion1", "suggestion2"]}

Keep suggestions to 2-4 concise, actionable items. If the abstract is excellent, provide 1 positive note.`,
			title, truncate(abstract, abstractExcerptLen), exp),
		MaxTokens:   300,
		Temperature: 0.3,
	}
}

// SpatialExtract asks for a bounding box anchored on known stations and the
// expedition's default extent.
func SpatialExtract(title, abstract string, exp domain.Expedition) Input {
	def := domain.ExpeditionBBox(exp)

	var stations strings.Builder
	for _, st := range domain.KnownStations {
		fmt.Fprintf(&stations, "- %s: lat ~%.2f, lon ~%.2f\n", st.Name, st.Lat, st.Lon)
	}

	return Input{
		User: fmt.Sprintf(`You are a geographic metadata expert for a national polar data repository.
Extract or estimate the geographic bounding box coordinates for this polar research dataset.

TITLE: %s
ABSTRACT: %s
EXPEDITION TYPE: %s

DEFAULT BOUNDING BOX for this expedition type:
North: %g, South: %g, East: %g, West: %g

Instructions:
- If the abstract mentions specific locations, provide coordinates specific to that location as a bounding box.
- If the abstract mentions a broad region (e.g. "East Antarctica"), provide a regional bounding box.
- If no specific location is mentioned, use the default bounding box for the expedition type.
- Determine if this is "bounding_box", "global", or "point" data.
- Also suggest a specific "subregion" name if found (e.g. "Schirmacher Oasis").

Well-known polar research locations:
%s
Respond with ONLY valid JSON:
{"north": <float>, "south": <float>, "east": <float>, "west": <float>, "zone_type": "<bounding_box|global|point>", "location_name": "<detected location or empty string>", "subregion": "<specific subregion name>"}`,
			title, truncate(abstract, abstractExcerptLenShort), exp,
			def.North, def.South, def.East, def.West, stations.String()),
		MaxTokens:   250,
		Temperature: 0.2,
	}
}

// Prefill combines classification, keywords, abstract quality and spatial
// extraction into one provider call to cut latency and tokens.
func Prefill(title, abstract string, exp domain.Expedition) Input {
	def := domain.ExpeditionBBox(exp)
	return Input{
		User: fmt.Sprintf(`You are a scientific metadata expert for a national polar data repository.
Given the following polar research dataset, perform ALL four tasks below in a single JSON response.

TITLE: %s
ABSTRACT: %s
EXPEDITION TYPE: %s
DEFAULT BOUNDING BOX: N=%g, S=%g, E=%g, W=%g

TASK 1 — CLASSIFICATION
Pick one category key and one ISO topic key from the lists below, and choose the most relevant topic name.
Categories: %s
ISO Topics: %s

TASK 2 — KEYWORDS
Generate 10 GCMD-compatible scientific keywords (array of strings).

TASK 3 — ABSTRACT QUALITY
Score 0-100 for completeness, clarity, scientific rigor, length, and specificity.
Grade: excellent (>=80), good (>=60), fair (>=40), poor (<40).
Provide 2-4 concise, actionable suggestions.

TASK 4 — SPATIAL BOUNDING BOX
Extract or estimate the geographic bounding box. Use the default if no location is found.
zone_type: "bounding_box", "global", or "point".

Respond with ONLY valid JSON:
{"classification": {"category": "<key>", "topic": "<topic_name>", "iso_topic": "<key>"},
 "keywords": ["kw1", "kw2", "kw3", "kw4", "kw5", "kw6", "kw7", "kw8", "kw9", "kw10"],
 "abstract_quality": {"score": <0-100>, "grade": "<excellent|good|fair|poor>", "suggestions": ["...", "..."]},
 "spatial": {"north": <float>, "south": <float>, "east": <float>, "west": <float>, "zone_type": "<type>", "location_name": "<str>", "subregion": "<str>"}}`,
			title, truncate(abstract, abstractExcerptLen), exp,
			def.North, def.South, def.East, def.West,
			strings.Join(domain.Categories, ", "),
			strings.Join(domain.ISOTopics, ", ")),
		MaxTokens:   800,
		Temperature: 0.3,
	}
}

// ReviewNotes asks for reviewer guidance over a full submission snapshot.
func ReviewNotes(sub domain.Submission) Input {
	bounds := "N/A"
	if sub.Bounds != nil {
		bounds = sub.Bounds.String()
	}
	return Input{
		User: fmt.Sprintf(`You are a senior dataset reviewer for a national polar data repository.
Evaluate this dataset submission for quality, completeness, and consistency.

SUBMISSION DATA:
- Title: %s
- Abstract: %s
- Expedition Type: %s
- Category: %s
- ISO Topic: %s
- Keywords: %s
- Temporal Coverage: %s to %s
- Spatial Bounds: %s
- Purpose: %s
- Data Set Progress: %s
- Has Data File: %t

Check for:
1. COMPLETENESS - Are all important fields filled? Is abstract adequate?
2. CONSISTENCY - Does expedition type match spatial coordinates? Does category match abstract content?
3. QUALITY - Are keywords relevant? Is the title descriptive? Temporal dates make sense?
4. ISSUES - Any red flags (e.g., future dates, impossible coordinates, mismatch between fields)?

Respond with ONLY valid JSON:
{
    "completeness_score": <0-100>,
    "issues": ["issue1", "issue2"],
    "suggestions": ["suggestion1", "suggestion2"],
    "draft_notes": "<2-3 sentence reviewer notes suitable for pasting into review form>"
}`,
			sub.Title, truncate(sub.Abstract, abstractExcerptLen), sub.Expedition,
			sub.Category, sub.ISOTopic, strings.Join(sub.Keywords, ", "),
			sub.TemporalStart, sub.TemporalEnd, bounds, truncate(sub.Purpose, 500),
			sub.Progress, sub.HasFile),
		MaxTokens:   500,
		Temperature: 0.3,
	}
}

// Title asks for a dataset title under the portal's length ceiling plus two
// alternatives.
func Title(abstract string, exp domain.Expedition) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific metadata expert for a national polar data repository.
Generate a concise, descriptive dataset title from the given abstract.

ABSTRACT: %s
EXPEDITION TYPE: %s

Requirements:
- Title must be UNDER %d characters
- Include the expedition/region name (e.g., "%s")
- Include the type of data or measurement (e.g., "Temperature Records", "Bathymetric Survey", "Ice Core Analysis")
- Include the specific location if mentioned in the abstract
- Follow academic dataset naming conventions
- Do NOT start with "Dataset" or "Data"
- Be specific rather than generic

Also provide 2 alternative titles for the user to choose from.

Respond with ONLY valid JSON:
{"title": "<primary title>", "alternatives": ["<alt title 1>", "<alt title 2>"]}`,
			truncate(abstract, abstractExcerptLen), exp,
			domain.MaxTitleLen, domain.ExpeditionLabel(exp)),
		MaxTokens:   300,
		Temperature: 0.5,
	}
}

// Purpose asks for a purpose statement distinct from the abstract.
func Purpose(title, abstract string, exp domain.Expedition) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific metadata expert for a national polar data repository.
Generate a PURPOSE statement for a polar research dataset. The purpose should explain WHY the data was collected.

TITLE: %s
ABSTRACT: %s
EXPEDITION TYPE: %s

Requirements:
- The purpose MUST be DIFFERENT from the abstract — do NOT repeat the abstract
- Focus on the scientific RATIONALE and MOTIVATION for collecting this data
- Explain how the data contributes to broader research goals
- Mention the intended use or application of the dataset
- Keep it under %d characters
- Write in formal scientific language
- Start with phrases like "This dataset was collected to...", "The purpose of this data collection is to...", or "This dataset supports..."

Respond with ONLY valid JSON:
{"purpose": "<purpose statement>"}`,
			title, truncate(abstract, abstractExcerptLen), exp, domain.MaxPurposeLen),
		MaxTokens:   400,
		Temperature: 0.4,
	}
}

// Resolution asks for DMS and range resolution suggestions constrained to
// the documented option lists.
func Resolution(title, abstract string, exp domain.Expedition) Input {
	return Input{
		User: fmt.Sprintf(`You are a scientific metadata expert for a national polar data repository.
Based on the dataset title, abstract, and expedition type, suggest appropriate data resolution values.

TITLE: %s
ABSTRACT: %s
EXPEDITION TYPE: %s

IMPORTANT: Think carefully about the TYPE of dataset:
- Ice cores, sediment cores, paleoclimate records → temporal resolution is typically "Annually" or "Multi-annual" (NOT sub-daily/hourly!)
- Real-time sensors, weather stations, buoys → temporal resolution is typically "Hourly", "Sub-daily", or "Daily"
- Satellite/remote sensing → temporal resolution depends on revisit time ("Daily", "Weekly", "Monthly")
- Field surveys, one-time expeditions → temporal resolution is "One-time"
- Bathymetric/topographic surveys → temporal resolution is "One-time", spatial focus

Resolution guidelines for polar/environmental datasets:
- Latitude/Longitude Resolution: expressed in Degrees, Minutes, Seconds (integers)
- Horizontal Resolution Range: one of %s
- Vertical Resolution: a descriptive string like "1 centimeter", "1 meter", "10 meters", "Point", "Not Applicable"
- Vertical Resolution Range: one of %s
- Temporal Resolution: a descriptive string like "Hourly", "Daily", "Weekly", "Monthly", "Annually", "Multi-annual", "Sub-daily", "One-time"
- Temporal Resolution Range: one of %s

Respond with ONLY valid JSON:
{
    "lat_deg": <integer>, "lat_min": <integer>, "lat_sec": <integer>,
    "lon_deg": <integer>, "lon_min": <integer>, "lon_sec": <integer>,
    "horizontal_resolution_range": "<one of the listed options>",
    "vertical_resolution": "<descriptive string>",
    "vertical_resolution_range": "<one of the listed options>",
    "temporal_resolution": "<descriptive string>",
    "temporal_resolution_range": "<one of the listed options>"
}`,
			title, truncate(abstract, abstractExcerptLen), domain.ExpeditionLabel(exp),
			quoteList(domain.HorizontalResolutionRanges),
			quoteList(domain.VerticalResolutionRanges),
			quoteList(domain.TemporalResolutionRanges)),
		MaxTokens:   400,
		Temperature: 0.3,
	}
}

// QueryParse asks the provider to turn a free-text search into structured
// filter fields, leaving anything uncertain out.
func QueryParse(query string) Input {
	return Input{
		User: fmt.Sprintf(`You are a search query parser for a national polar data repository holding polar and Himalayan expedition datasets.

Parse this natural language search query into structured search parameters.

QUERY: "%s"

VALID VALUES:
- expedition: %s
- category: %s
- iso_topic: %s
- year: a 4-digit year between %d and %d

RULES:
1. Extract search keywords (core scientific terms only, remove filter words like "from", "in", "about")
2. Map location mentions to expedition type (Antarctica→antarctic, Arctic→arctic, Himalaya→himalaya, Southern Ocean→southern_ocean)
3. Map science topics to the closest category value
4. Only include fields you are confident about. Leave uncertain fields out.
5. "keywords" should contain the refined search terms for full-text search

Return ONLY valid JSON, no explanation:
{"keywords": "...", "expedition": "...", "category": "...", "iso_topic": "...", "year": <int>}

If nothing can be extracted, return: {"keywords": "%s"}`,
			query, quoteExpeditions(), strings.Join(domain.Categories, ", "),
			strings.Join(domain.ISOTopics, ", "), domain.MinYear, domain.MaxYear, query),
		MaxTokens:   200,
		Temperature: 0.1,
	}
}

// Suggest asks for a corrected query and alternative terms after a search
// found nothing, including an explicit off-topic verdict.
func Suggest(failedQuery string, availableKeywords []string) Input {
	keywordContext := ""
	if len(availableKeywords) > 0 {
		n := len(availableKeywords)
		if n > 30 {
			n = 30
		}
		keywordContext = "\nDATASETS IN THE DATABASE CONTAIN THESE KEYWORDS/TOPICS: " +
			strings.Join(availableKeywords[:n], ", ")
	}

	return Input{
		User: fmt.Sprintf(`You are a search assistant for a national polar data repository of polar and Himalayan expedition research.

A user searched for "%s" but got ZERO results.

The database contains datasets about:
- Antarctic, Arctic, Southern Ocean, and Himalayan expeditions
- Categories: Atmosphere, Biosphere, Cryosphere, Oceans, Paleoclimate, Solid Earth, Land Surface, Marine Science, Terrestrial Science
- Scientific research data: temperature, glaciology, marine biology, oceanography, climate, ice cores, weather, etc.%s

Provide:
1. A corrected version of the query (fix typos, improve terms)
2. Up to 4 alternative search suggestions that ARE likely to find results in this polar/Himalayan research database

Return ONLY valid JSON:
{"corrected_query": "...", "suggestions": ["...", "...", "...", "..."]}

If the query is completely unrelated to polar/Himalayan science, return:
{"corrected_query": "", "suggestions": [], "off_topic": true}`,
			failedQuery, keywordContext),
		MaxTokens:   250,
		Temperature: 0.3,
	}
}

// Summary asks for a short plain-text overview of the top results of a
// successful search.
func Summary(query, resultsBlock string, resultCount int) Input {
	return Input{
		User: fmt.Sprintf(`You are a search assistant for a national polar data repository.

User searched: "%s" and found %d results.

TOP RESULTS:
%s
Write a 2-3 sentence plain text summary. Be specific about dataset names, regions, and time periods. No markdown.`,
			query, resultCount, resultsBlock),
		MaxTokens:   200,
		Temperature: 0.5,
	}
}

// Answer builds the retrieval-grounded question answering prompt. The system
// text requires citations by dataset ID and an UNRELATED: sentinel for
// off-domain questions.
func Answer(question, contextBlock string, matchCount, totalCount int) Input {
	totalNote := ""
	if totalCount >= 0 {
		totalNote = fmt.Sprintf(
			"NOTE: The repository contains %d published datasets in total. The context below shows the top %d most relevant matches for this query.\n\n",
			totalCount, matchCount)
	}

	return Input{
		System: `You are the polar data portal's search assistant. You searched the database and found the datasets below.
RULES:
1. Use ONLY the datasets below. Cite by title and [ID: X].
2. Do NOT fabricate data. No markdown (**, ##). Plain text only.
3. If the query is unrelated to polar/cryosphere science, start with 'UNRELATED:'.
4. If results don't match the question, say you couldn't find matching datasets.
5. For total count questions, use the count from the NOTE.
6. Format each result as a single bullet: Title [ID: X] - Category, Region, StartDate to EndDate, then a brief 1-2 sentence summary.
7. Start with one short sentence like 'I found X datasets related to ...'
8. Speak naturally — say 'I found' not 'based on the provided datasets'.`,
		User: fmt.Sprintf(`%sQ: %s

SEARCH RESULTS (%d matches):
%s
Answer naturally, citing dataset titles and IDs.`,
			totalNote, question, matchCount, contextBlock),
		MaxTokens:   700,
		Temperature: 0.3,
	}
}

func quoteList(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = `"` + o + `"`
	}
	return strings.Join(quoted, ", ")
}

func quoteExpeditions() string {
	keys := make([]string, len(domain.Expeditions))
	for i, e := range domain.Expeditions {
		keys[i] = string(e)
	}
	return strings.Join(keys, ", ")
}

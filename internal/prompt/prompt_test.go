package prompt

import (
	"strings"
	"testing"

	"polarassist/internal/domain"
)

func TestBuildersAreDeterministic(t *testing.T) {
	a := Classify("Sea ice thickness", "Weekly measurements near Maitri.", domain.ExpeditionAntarctic)
	b := Classify("Sea ice thickness", "Weekly measurements near Maitri.", domain.ExpeditionAntarctic)
	if a != b {
		t.Error("same input must render the same instruction")
	}
}

func TestClassifyEmbedsClosedSets(t *testing.T) {
	in := Classify("t", "a", domain.ExpeditionArctic)
	for _, cat := range []string{"cryosphere", "oceans", "atmosphere"} {
		if !strings.Contains(in.User, cat) {
			t.Errorf("classify prompt missing category key %q", cat)
		}
	}
	if !strings.Contains(in.User, "climatologyMeteorologyAtmosphere") {
		t.Error("classify prompt missing ISO topic keys")
	}
	if in.MaxTokens == 0 {
		t.Error("classify prompt must bound output tokens")
	}
}

func TestAbstractTruncation(t *testing.T) {
	long := strings.Repeat("x", 5000)
	in := AbstractQuality("t", long, domain.ExpeditionAntarctic)
	if strings.Count(in.User, "x") > abstractExcerptLen {
		t.Error("quality prompt must truncate long abstracts")
	}
}

func TestSpatialExtractAnchorsOnStationsAndDefaults(t *testing.T) {
	in := SpatialExtract("t", "measurements at Maitri", domain.ExpeditionAntarctic)
	if !strings.Contains(in.User, "Maitri") {
		t.Error("spatial prompt should list known stations")
	}
	if !strings.Contains(in.User, "-90") {
		t.Error("spatial prompt should carry the expedition default extent")
	}
}

func TestResolutionListsDocumentedOptions(t *testing.T) {
	in := Resolution("t", strings.Repeat("a", 40), domain.ExpeditionHimalaya)
	if !strings.Contains(in.User, domain.HorizontalResolutionRanges[0]) {
		t.Error("resolution prompt should embed the horizontal option list")
	}
}

func TestQueryParseNamesExpeditions(t *testing.T) {
	in := QueryParse("glacier data from himalaya")
	for _, e := range domain.Expeditions {
		if !strings.Contains(in.User, string(e)) {
			t.Errorf("query prompt missing expedition key %q", e)
		}
	}
	if in.Temperature > 0.2 {
		t.Error("query parsing should run near-deterministic")
	}
}

func TestSuggestIncludesKeywordContext(t *testing.T) {
	in := Suggest("glaciar mass blance", []string{"glacier", "mass balance", "ablation"})
	if !strings.Contains(in.User, "mass balance") {
		t.Error("suggestion prompt should show available corpus keywords")
	}
	if !strings.Contains(in.User, "off_topic") {
		t.Error("suggestion prompt must request the off_topic verdict")
	}
}

func TestSummaryQuotesQueryAndResults(t *testing.T) {
	in := Summary("glacier himalaya", "1. Glacier mass balance\n   Cryosphere | Himalaya | 2024-03-01 to 2024-09-30\n", 3)
	if !strings.Contains(in.User, `"glacier himalaya"`) {
		t.Error("summary prompt should quote the original query")
	}
	if !strings.Contains(in.User, "Glacier mass balance") {
		t.Error("summary prompt should include the results block")
	}
	if !strings.Contains(in.User, "No markdown") {
		t.Error("summary prompt must ask for plain text")
	}
}

func TestAnswerDemandsCitationsAndSentinel(t *testing.T) {
	in := Answer("which datasets cover sea ice?", "[ID: 3] Sea ice thickness\n", 1, 42)
	if !strings.Contains(in.System, "[ID:") {
		t.Error("answer system prompt must require [ID: X] citations")
	}
	if !strings.Contains(in.System, "UNRELATED:") {
		t.Error("answer system prompt must define the unrelated sentinel")
	}
	if !strings.Contains(in.User, "42") {
		t.Error("answer prompt should state the corpus size")
	}
}

func TestReviewNotesCoversSubmissionState(t *testing.T) {
	in := ReviewNotes(domain.Submission{
		Title:      "Sea ice thickness",
		Abstract:   "Weekly measurements.",
		Expedition: domain.ExpeditionAntarctic,
		Category:   "cryosphere",
		Keywords:   []string{"sea ice"},
		HasFile:    false,
	})
	if !strings.Contains(in.User, "Sea ice thickness") {
		t.Error("review prompt should quote the submission")
	}
	if !strings.Contains(strings.ToLower(in.User), "file") {
		t.Error("review prompt should mention the missing data file")
	}
}

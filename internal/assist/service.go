package assist

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"polarassist/internal/domain"
	"polarassist/internal/prompt"
	"polarassist/internal/schema"
)

// minAbstractLen is the shortest abstract worth sending to a provider.
// Generation tasks fed less than this fail up front.
const minAbstractLen = 20

// Service exposes one method per assistance task.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger}
}

// Disabled reports whether the underlying gateway has no providers.
func (s *Service) Disabled() bool { return s.gen.Disabled() }

func abstractTooShort(abstract string) bool {
	return utf8.RuneCountInString(abstract) < minAbstractLen
}

func shortAbstractDiag() schema.Diagnostic {
	return schema.Diagnostic{
		Field:    "abstract",
		Rule:     "min_length",
		Message:  "abstract is too short to assist with; write a few sentences first",
		Severity: schema.SeverityError,
	}
}

// Classify suggests category and ISO topic for a dataset.
func (s *Service) Classify(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.Classification] {
	return run(ctx, s.gen, s.logger, TaskClassify, prompt.Classify(title, abstract, exp), schema.ParseClassification)
}

// Keywords suggests up to n searchable keywords.
func (s *Service) Keywords(ctx context.Context, title, abstract, category string, n int) Result[[]string] {
	return run(ctx, s.gen, s.logger, TaskKeywords, prompt.Keywords(title, abstract, category, n), schema.ParseKeywords)
}

// AbstractQuality scores an abstract and suggests improvements.
func (s *Service) AbstractQuality(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.QualityReport] {
	if abstractTooShort(abstract) {
		return failed[schema.QualityReport](TaskAbstractQuality, shortAbstractDiag())
	}
	return run(ctx, s.gen, s.logger, TaskAbstractQuality, prompt.AbstractQuality(title, abstract, exp), schema.ParseQuality)
}

// SpatialExtract pulls a bounding box and zone type out of the text.
func (s *Service) SpatialExtract(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.SpatialExtent] {
	return run(ctx, s.gen, s.logger, TaskSpatialExtract, prompt.SpatialExtract(title, abstract, exp),
		func(raw string) (schema.SpatialExtent, []schema.Diagnostic, error) {
			return schema.ParseSpatial(raw, exp)
		})
}

// Prefill runs the combined classification/keywords/quality/spatial call
// used when a submission form is first populated.
func (s *Service) Prefill(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.PrefillResult] {
	if abstractTooShort(abstract) {
		return failed[schema.PrefillResult](TaskPrefill, shortAbstractDiag())
	}
	return run(ctx, s.gen, s.logger, TaskPrefill, prompt.Prefill(title, abstract, exp),
		func(raw string) (schema.PrefillResult, []schema.Diagnostic, error) {
			return schema.ParsePrefill(raw, exp)
		})
}

// ReviewNotes drafts reviewer guidance for a submission.
func (s *Service) ReviewNotes(ctx context.Context, sub domain.Submission) Result[schema.ReviewNotes] {
	return run(ctx, s.gen, s.logger, TaskReviewNotes, prompt.ReviewNotes(sub), schema.ParseReviewNotes)
}

// Title proposes a dataset title from the abstract.
func (s *Service) Title(ctx context.Context, abstract string, exp domain.Expedition) Result[schema.TitleSuggestion] {
	if abstractTooShort(abstract) {
		return failed[schema.TitleSuggestion](TaskTitle, shortAbstractDiag())
	}
	return run(ctx, s.gen, s.logger, TaskTitle, prompt.Title(abstract, exp), schema.ParseTitle)
}

// Purpose drafts a purpose statement.
func (s *Service) Purpose(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.PurposeSuggestion] {
	if abstractTooShort(abstract) {
		return failed[schema.PurposeSuggestion](TaskPurpose, shortAbstractDiag())
	}
	return run(ctx, s.gen, s.logger, TaskPurpose, prompt.Purpose(title, abstract, exp), schema.ParsePurpose)
}

// Resolution suggests spatial and temporal resolution values.
func (s *Service) Resolution(ctx context.Context, title, abstract string, exp domain.Expedition) Result[schema.ResolutionSuggestion] {
	if abstractTooShort(abstract) {
		return failed[schema.ResolutionSuggestion](TaskResolution, shortAbstractDiag())
	}
	return run(ctx, s.gen, s.logger, TaskResolution, prompt.Resolution(title, abstract, exp), schema.ParseResolution)
}

// QueryParse extracts structured filters from a natural-language query.
func (s *Service) QueryParse(ctx context.Context, query string) Result[schema.ParsedQuery] {
	return run(ctx, s.gen, s.logger, TaskQueryParse, prompt.QueryParse(query), schema.ParseQueryFields)
}

// Suggest proposes corrections and alternatives for a query that matched
// nothing, optionally flagging it as off-topic for the portal.
func (s *Service) Suggest(ctx context.Context, failedQuery string, availableKeywords []string) Result[schema.QuerySuggestions] {
	return run(ctx, s.gen, s.logger, TaskQueryParse, prompt.Suggest(failedQuery, availableKeywords), schema.ParseSuggestions)
}

// SearchSummary writes a short overview of a search's top results.
func (s *Service) SearchSummary(ctx context.Context, query, resultsBlock string, resultCount int) Result[schema.ResultSummary] {
	return run(ctx, s.gen, s.logger, TaskSummary, prompt.Summary(query, resultsBlock, resultCount), schema.ParseSummary)
}

// Answer generates a grounded answer over the supplied context block.
func (s *Service) Answer(ctx context.Context, question, contextBlock string, matchCount, totalCount int) Result[schema.AnswerText] {
	return run(ctx, s.gen, s.logger, TaskAnswer, prompt.Answer(question, contextBlock, matchCount, totalCount), schema.ParseAnswer)
}

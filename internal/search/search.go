// Package search turns natural-language portal queries into structured
// corpus predicates and runs them, recovering from zero-result searches
// with provider-suggested rewrites.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"polarassist/internal/assist"
	"polarassist/internal/domain"
	"polarassist/internal/index"
	"polarassist/internal/schema"
)

// Predicates is the structured form of a portal query. Zero values mean
// no constraint on that axis.
type Predicates struct {
	DOI        string
	Expedition domain.Expedition
	Category   string
	ISOTopic   string
	Year       int
	YearFrom   int
	YearTo     int
	Bounds     *domain.BBox
	Terms      []string
}

func (p Predicates) toQuery(limit int) index.Query {
	return index.Query{
		DOI:        p.DOI,
		Expedition: p.Expedition,
		Category:   p.Category,
		ISOTopic:   p.ISOTopic,
		Year:       p.Year,
		YearFrom:   p.YearFrom,
		YearTo:     p.YearTo,
		Bounds:     p.Bounds,
		Terms:      p.Terms,
		Limit:      limit,
	}
}

// Assistant is the slice of the assistance service the searcher uses.
type Assistant interface {
	QueryParse(ctx context.Context, query string) assist.Result[schema.ParsedQuery]
	Suggest(ctx context.Context, failedQuery string, availableKeywords []string) assist.Result[schema.QuerySuggestions]
	SearchSummary(ctx context.Context, query, resultsBlock string, resultCount int) assist.Result[schema.ResultSummary]
	Disabled() bool
}

const (
	defaultLimit = 25
	// maxRecoveryRounds bounds re-queries after a zero-result search.
	maxRecoveryRounds = 2
	// suggestionKeywordCount is how many corpus keywords the suggestion
	// prompt sees.
	suggestionKeywordCount = 30
	// summaryTopResults caps how many records feed the summary prompt.
	summaryTopResults = 5
	// summaryAbstractLen caps each record's abstract contribution to the
	// summary prompt.
	summaryAbstractLen = 150
)

// Searcher translates and executes portal queries.
type Searcher struct {
	svc    Assistant
	idx    index.Index
	logger *zap.Logger
	limit  int
}

func New(svc Assistant, idx index.Index, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{svc: svc, idx: idx, logger: logger, limit: defaultLimit}
}

var (
	yearPattern      = regexp.MustCompile(`\b(\d{4})\b`)
	yearRangePattern = regexp.MustCompile(`\b(\d{4})\s*(?:-|to)\s*(\d{4})\b`)
)

// stopwords are dropped from free-text terms. They mirror the filler words
// portal users type around their actual subject.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "all": {}, "and": {}, "data": {}, "datasets": {},
	"find": {}, "for": {}, "from": {}, "get": {}, "give": {}, "in": {},
	"me": {}, "of": {}, "on": {}, "or": {}, "search": {}, "show": {},
	"the": {}, "with": {},
}

// lexicalParse is the deterministic pre-pass. It needs no provider, so
// query translation keeps working when assistance is disabled.
func lexicalParse(query string) Predicates {
	var p Predicates
	lower := strings.ToLower(query)

	// Longest alias first so "southern ocean" wins over nothing shorter.
	matched := ""
	for alias, exp := range domain.ExpeditionAliases {
		if strings.Contains(lower, alias) && len(alias) > len(matched) {
			matched = alias
			p.Expedition = exp
		}
	}
	if matched != "" {
		lower = strings.ReplaceAll(lower, matched, " ")
	}

	if m := yearRangePattern.FindStringSubmatch(lower); m != nil {
		from, to := atoi(m[1]), atoi(m[2])
		if from <= to && len(schema.ValidateYear(from)) == 0 && len(schema.ValidateYear(to)) == 0 {
			p.YearFrom, p.YearTo = from, to
			lower = strings.Replace(lower, m[0], " ", 1)
		}
	}
	if p.YearFrom == 0 {
		if m := yearPattern.FindStringSubmatch(lower); m != nil {
			if y := atoi(m[1]); len(schema.ValidateYear(y)) == 0 {
				p.Year = y
				lower = strings.Replace(lower, m[1], " ", 1)
			}
		}
	}

	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, `.,;:!?"'()`)
		if tok == "" {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		p.Terms = append(p.Terms, tok)
	}
	return p
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// Translate converts a query into predicates. A DOI-shaped query maps
// straight to an exact DOI predicate with no provider call; otherwise the
// lexical pre-pass runs first and a provider pass refines it when
// assistance is available. Free-text terms from the pre-pass are never
// discarded by the provider pass.
func (s *Searcher) Translate(ctx context.Context, query string) (Predicates, assist.Result[schema.ParsedQuery]) {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "10.") {
		return Predicates{DOI: query}, assist.Result[schema.ParsedQuery]{
			Task:   assist.TaskQueryParse,
			Status: assist.StatusSuccess,
		}
	}

	preds := lexicalParse(query)
	if s.svc.Disabled() {
		return preds, assist.Result[schema.ParsedQuery]{
			Task:   assist.TaskQueryParse,
			Status: assist.StatusDisabled,
		}
	}

	res := s.svc.QueryParse(ctx, query)
	if !res.Usable() {
		return preds, res
	}

	parsed := res.Output
	if preds.Expedition == "" {
		preds.Expedition = parsed.Expedition
	}
	if parsed.Category != "" {
		preds.Category = parsed.Category
	}
	if parsed.ISOTopic != "" {
		preds.ISOTopic = parsed.ISOTopic
	}
	if preds.Year == 0 && preds.YearFrom == 0 {
		preds.Year = parsed.Year
	}
	preds.Terms = mergeTerms(preds.Terms, parsed.Keywords)
	return preds, res
}

// mergeTerms unions lexical terms with provider keywords, keeping lexical
// order and dropping duplicates.
func mergeTerms(lexical []string, aiKeywords string) []string {
	seen := make(map[string]struct{}, len(lexical))
	out := make([]string, 0, len(lexical))
	for _, t := range lexical {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	for _, t := range strings.Fields(strings.ToLower(aiKeywords)) {
		tok := strings.Trim(t, `.,;:!?"'()`)
		if tok == "" {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Attempt records one executed query in the recovery trail.
type Attempt struct {
	Query      string
	Predicates Predicates
	Results    int
}

// Outcome is a completed search, including anything recovery tried.
type Outcome struct {
	Query       string
	Predicates  Predicates
	Results     []index.Record
	Translation assist.Result[schema.ParsedQuery]
	// Suggestions and CorrectedQuery come from recovery; empty when the
	// first query matched or recovery never ran.
	Suggestions    []string
	CorrectedQuery string
	OffTopic       bool
	Trail          []Attempt
}

// Search translates and executes a single query with no recovery.
func (s *Searcher) Search(ctx context.Context, query string) (Outcome, error) {
	preds, tr := s.Translate(ctx, query)
	records, err := s.idx.Search(ctx, preds.toQuery(s.limit))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Query:       query,
		Predicates:  preds,
		Results:     records,
		Translation: tr,
		Trail:       []Attempt{{Query: query, Predicates: preds, Results: len(records)}},
	}, nil
}

// SearchWithRecovery executes the query and, when it matches nothing, runs
// up to two recovery rounds: first the provider's corrected query, then the
// first alternative suggestion not already tried. An off-topic verdict ends
// recovery immediately, and no query string is ever issued twice.
func (s *Searcher) SearchWithRecovery(ctx context.Context, query string) (Outcome, error) {
	out, err := s.Search(ctx, query)
	if err != nil || len(out.Results) > 0 {
		return out, err
	}
	if s.svc.Disabled() {
		return out, nil
	}

	tried := map[string]struct{}{strings.ToLower(strings.TrimSpace(query)): {}}

	corpusKeywords, err := s.idx.Keywords(ctx, suggestionKeywordCount)
	if err != nil {
		s.logger.Warn("keyword context unavailable for recovery", zap.Error(err))
	}
	sres := s.svc.Suggest(ctx, query, corpusKeywords)
	if !sres.Usable() {
		return out, nil
	}
	out.Suggestions = sres.Output.Suggestions
	out.CorrectedQuery = sres.Output.CorrectedQuery
	out.OffTopic = sres.Output.OffTopic
	if out.OffTopic {
		s.logger.Info("query judged off-topic, skipping recovery", zap.String("query", query))
		return out, nil
	}

	candidates := make([]string, 0, 1+len(out.Suggestions))
	if out.CorrectedQuery != "" {
		candidates = append(candidates, out.CorrectedQuery)
	}
	candidates = append(candidates, out.Suggestions...)

	rounds := 0
	for _, cand := range candidates {
		if rounds == maxRecoveryRounds {
			break
		}
		key := strings.ToLower(strings.TrimSpace(cand))
		if key == "" {
			continue
		}
		if _, done := tried[key]; done {
			continue
		}
		tried[key] = struct{}{}
		rounds++

		preds, _ := s.Translate(ctx, cand)
		records, err := s.idx.Search(ctx, preds.toQuery(s.limit))
		if err != nil {
			return out, err
		}
		out.Trail = append(out.Trail, Attempt{Query: cand, Predicates: preds, Results: len(records)})
		s.logger.Info("recovery attempt",
			zap.Int("round", rounds),
			zap.String("query", cand),
			zap.Int("results", len(records)))
		if len(records) > 0 {
			out.Predicates = preds
			out.Results = records
			return out, nil
		}
	}
	return out, nil
}

// Summarize writes a 2-3 sentence overview of a completed search's top
// results. With nothing to summarize, or with assistance disabled, it
// returns a Disabled result without a provider call.
func (s *Searcher) Summarize(ctx context.Context, out Outcome) assist.Result[schema.ResultSummary] {
	if len(out.Results) == 0 || s.svc.Disabled() {
		return assist.Result[schema.ResultSummary]{
			Task:   assist.TaskSummary,
			Status: assist.StatusDisabled,
		}
	}
	return s.svc.SearchSummary(ctx, out.Query, summaryBlock(out.Results), len(out.Results))
}

// summaryBlock renders the top records as numbered prompt context with
// title, category, region, temporal span and a truncated abstract.
func summaryBlock(records []index.Record) string {
	if len(records) > summaryTopResults {
		records = records[:summaryTopResults]
	}
	var b strings.Builder
	for i, r := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   %s | %s | %s to %s\n", r.Category,
			domain.ExpeditionLabel(r.Expedition), r.TemporalStart, r.TemporalEnd)
		abstract := r.Abstract
		if ru := []rune(abstract); len(ru) > summaryAbstractLen {
			abstract = string(ru[:summaryAbstractLen])
		}
		fmt.Fprintf(&b, "   %s\n", abstract)
	}
	return b.String()
}

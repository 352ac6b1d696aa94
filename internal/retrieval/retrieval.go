// Package retrieval grounds question answering in the published corpus:
// it selects relevant dataset excerpts, asks the provider for an answer
// citing them, and verifies the citations against the index.
package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"polarassist/internal/assist"
	"polarassist/internal/index"
	"polarassist/internal/schema"
)

const (
	// DefaultTopK is how many dataset excerpts an answer is grounded on.
	DefaultTopK = 5
	// contextBudget caps the total excerpt block handed to the provider.
	contextBudget = 4000
	// abstractExcerptLen caps each dataset's abstract contribution.
	abstractExcerptLen = 150
)

// Retriever selects corpus excerpts relevant to a question.
type Retriever struct {
	idx index.Index
}

func NewRetriever(idx index.Index) *Retriever {
	return &Retriever{idx: idx}
}

var questionStopwords = map[string]struct{}{
	"a": {}, "an": {}, "any": {}, "are": {}, "can": {}, "data": {},
	"datasets": {}, "do": {}, "does": {}, "for": {}, "from": {}, "have": {},
	"how": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "portal": {},
	"tell": {}, "that": {}, "the": {}, "there": {}, "to": {}, "was": {},
	"we": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "you": {},
}

func questionTerms(question string) []string {
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(question)) {
		tok = strings.Trim(tok, `.,;:!?"'()`)
		if len(tok) < 3 {
			continue
		}
		if _, skip := questionStopwords[tok]; skip {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// Context returns the excerpt block for a question plus the records it was
// built from, best match first. An empty block means nothing in the corpus
// relates to the question.
func (r *Retriever) Context(ctx context.Context, question string, topK int) (string, []index.Record, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	terms := questionTerms(question)
	if len(terms) == 0 {
		return "", nil, nil
	}
	records, err := r.idx.Search(ctx, index.Query{Terms: terms, Limit: topK})
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	for _, rec := range records {
		excerpt := formatExcerpt(rec)
		if b.Len()+len(excerpt) > contextBudget {
			break
		}
		b.WriteString(excerpt)
	}
	return b.String(), records, nil
}

func formatExcerpt(rec index.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ID: %d] %s\n", rec.ID, rec.Title)
	if len(rec.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(rec.Keywords, ", "))
	}
	if rec.Year != 0 {
		fmt.Fprintf(&b, "Year: %d\n", rec.Year)
	}
	if rec.Abstract != "" {
		abstract := rec.Abstract
		if r := []rune(abstract); len(r) > abstractExcerptLen {
			abstract = string(r[:abstractExcerptLen]) + "..."
		}
		fmt.Fprintf(&b, "Abstract: %s\n", abstract)
	}
	b.WriteString("\n")
	return b.String()
}

// CitedDataset is one dataset an answer referenced by ID.
type CitedDataset struct {
	ID    int
	Title string
}

// Answer is a grounded response to a portal question.
type Answer struct {
	Text      string
	Citations []CitedDataset
	// Ungrounded means the answer could not be tied to any known dataset:
	// either no relevant excerpts existed, or the provider cited nothing
	// that exists. Callers should present it with a caveat or not at all.
	Ungrounded bool
	// Unrelated means the question was judged outside the portal's domain.
	Unrelated bool
	Status    assist.Status
	Provider  string
}

// AnswerAssistant is the slice of the assistance service the answerer uses.
type AnswerAssistant interface {
	Answer(ctx context.Context, question, contextBlock string, matchCount, totalCount int) assist.Result[schema.AnswerText]
	Disabled() bool
}

// Answerer answers portal questions from the published corpus.
type Answerer struct {
	svc       AnswerAssistant
	idx       index.Index
	retriever *Retriever
	logger    *zap.Logger
	topK      int
}

func NewAnswerer(svc AnswerAssistant, idx index.Index, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		svc:       svc,
		idx:       idx,
		retriever: NewRetriever(idx),
		logger:    logger,
		topK:      DefaultTopK,
	}
}

var countQuestionPattern = regexp.MustCompile(`(?i)\bhow many\b|\bnumber of\b.*\bdatasets?\b|\bdataset count\b`)

var citationPattern = regexp.MustCompile(`\[ID:\s*(\d+)\]`)

// Answer responds to a question about the corpus. Count questions are
// answered straight from the index; everything else goes through retrieval
// and a cited provider answer. Answers that cite nothing real come back
// flagged Ungrounded rather than invented.
func (a *Answerer) Answer(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)

	if countQuestionPattern.MatchString(question) {
		n, err := a.idx.Count(ctx)
		if err != nil {
			return Answer{}, fmt.Errorf("count datasets: %w", err)
		}
		return Answer{
			Text:   fmt.Sprintf("The portal currently holds %d published datasets.", n),
			Status: assist.StatusSuccess,
		}, nil
	}

	block, records, err := a.retriever.Context(ctx, question, a.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("build answer context: %w", err)
	}
	if block == "" {
		return Answer{
			Text:       "No published datasets relate to this question.",
			Ungrounded: true,
			Status:     assist.StatusSuccess,
		}, nil
	}

	total, err := a.idx.Count(ctx)
	if err != nil {
		a.logger.Warn("corpus count unavailable", zap.Error(err))
	}

	res := a.svc.Answer(ctx, question, block, len(records), total)
	if !res.Usable() {
		return Answer{Status: res.Status}, res.Err
	}

	ans := Answer{
		Text:      res.Output.Text,
		Unrelated: res.Output.Unrelated,
		Status:    res.Status,
		Provider:  res.Provider,
	}
	if ans.Unrelated {
		return ans, nil
	}

	ans.Citations, err = a.resolveCitations(ctx, res.Output.Text)
	if err != nil {
		return Answer{}, err
	}
	if len(ans.Citations) == 0 {
		ans.Ungrounded = true
	}
	return ans, nil
}

// resolveCitations extracts [ID: x] references and verifies each against
// the index, dropping the ones that do not exist.
func (a *Answerer) resolveCitations(ctx context.Context, text string) ([]CitedDataset, error) {
	ids := make([]int, 0, 4)
	seen := make(map[int]struct{})
	for _, m := range citationPattern.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cited := make([]CitedDataset, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := a.idx.Get(gctx, id)
			if err == index.ErrNotFound {
				a.logger.Warn("answer cited unknown dataset", zap.Int("id", id))
				return nil
			}
			if err != nil {
				return err
			}
			cited[i] = CitedDataset{ID: rec.ID, Title: rec.Title}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve citations: %w", err)
	}

	out := cited[:0]
	for _, c := range cited {
		if c.ID != 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

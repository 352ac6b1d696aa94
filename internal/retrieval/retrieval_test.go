package retrieval

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarassist/internal/assist"
	"polarassist/internal/domain"
	"polarassist/internal/index"
	"polarassist/internal/schema"
)

type fakeAnswerer struct {
	calls    atomic.Int32
	text     string
	status   assist.Status
	disabled bool

	gotContext string
	gotMatches int
	gotTotal   int
}

func (f *fakeAnswerer) Disabled() bool { return f.disabled }

func (f *fakeAnswerer) Answer(_ context.Context, _, contextBlock string, matchCount, totalCount int) assist.Result[schema.AnswerText] {
	f.calls.Add(1)
	f.gotContext = contextBlock
	f.gotMatches = matchCount
	f.gotTotal = totalCount

	status := f.status
	if status == "" {
		status = assist.StatusSuccess
	}
	out, _, _ := schema.ParseAnswer(f.text)
	return assist.Result[schema.AnswerText]{Task: assist.TaskAnswer, Status: status, Output: out, Provider: "groq"}
}

func answerCorpus() *index.Memory {
	return index.NewMemory(
		index.Record{
			ID: 7, Title: "Sea ice thickness near Maitri Station",
			Abstract: "Weekly sea ice thickness from drill holes during austral winter.",
			Keywords: []string{"sea ice", "thickness"},
			Year:     2023, Expedition: domain.ExpeditionAntarctic,
		},
		index.Record{
			ID: 12, Title: "Snow cover duration in the Himalaya",
			Abstract: "MODIS-derived snow cover duration maps.",
			Keywords: []string{"snow cover", "remote sensing"},
			Year:     2024, Expedition: domain.ExpeditionHimalaya,
		},
	)
}

func TestRetrieverContext(t *testing.T) {
	r := NewRetriever(answerCorpus())

	block, records, err := r.Context(context.Background(), "how thick is the sea ice near Maitri?", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ID)
	assert.Contains(t, block, "[ID: 7]")
	assert.Contains(t, block, "Sea ice thickness")
}

func TestRetrieverContextTruncatesAbstracts(t *testing.T) {
	long := index.Record{
		ID: 1, Title: "Permafrost temperature records",
		Abstract: strings.Repeat("Permafrost observations. ", 50),
		Keywords: []string{"permafrost"},
	}
	r := NewRetriever(index.NewMemory(long))

	block, _, err := r.Context(context.Background(), "permafrost temperature", 5)
	require.NoError(t, err)
	// The excerpt keeps the budget: a 1250-char abstract contributes ~150.
	assert.Less(t, len(block), 400)
	assert.Contains(t, block, "...")
}

func TestAnswerCountShortCircuit(t *testing.T) {
	fa := &fakeAnswerer{}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, err := a.Answer(context.Background(), "how many datasets does the portal have?")
	require.NoError(t, err)
	assert.Contains(t, ans.Text, "2")
	assert.Equal(t, assist.StatusSuccess, ans.Status)
	assert.Zero(t, fa.calls.Load(), "count questions are answered from the index alone")
}

func TestAnswerEmptyContextIsUngrounded(t *testing.T) {
	fa := &fakeAnswerer{text: "should never be used"}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, err := a.Answer(context.Background(), "volcanic eruptions on io")
	require.NoError(t, err)
	assert.True(t, ans.Ungrounded)
	assert.Zero(t, fa.calls.Load(), "no provider call without grounding context")
}

func TestAnswerResolvesCitations(t *testing.T) {
	fa := &fakeAnswerer{text: "I found two datasets: sea ice thickness [ID: 7] and snow cover [ID: 12]. Also [ID: 999] which does not exist."}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, err := a.Answer(context.Background(), "what sea ice and snow cover data exists?")
	require.NoError(t, err)
	require.Len(t, ans.Citations, 2, "unknown IDs are dropped")
	assert.Equal(t, 7, ans.Citations[0].ID)
	assert.Equal(t, 12, ans.Citations[1].ID)
	assert.False(t, ans.Ungrounded)
	assert.Equal(t, "groq", ans.Provider)
	assert.Positive(t, fa.gotTotal)
}

func TestAnswerWithoutRealCitationsIsUngrounded(t *testing.T) {
	fa := &fakeAnswerer{text: "There is plenty of sea ice data available."}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, err := a.Answer(context.Background(), "is there sea ice data?")
	require.NoError(t, err)
	assert.True(t, ans.Ungrounded, "an answer citing nothing known must be flagged")
	assert.Empty(t, ans.Citations)
}

func TestAnswerUnrelatedSentinel(t *testing.T) {
	fa := &fakeAnswerer{text: "UNRELATED: I can only answer questions about polar research data."}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, err := a.Answer(context.Background(), "who won the sea ice football cup snow?")
	require.NoError(t, err)
	assert.True(t, ans.Unrelated)
	assert.NotContains(t, ans.Text, "UNRELATED:")
	assert.Empty(t, ans.Citations, "unrelated answers carry no citations")
}

func TestAnswerProviderFailurePropagatesStatus(t *testing.T) {
	fa := &fakeAnswerer{status: assist.StatusFailed, text: "{}"}
	a := NewAnswerer(fa, answerCorpus(), nil)

	ans, _ := a.Answer(context.Background(), "sea ice thickness records?")
	assert.Equal(t, assist.StatusFailed, ans.Status)
	assert.Empty(t, ans.Text)
}

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarassist/internal/domain"
)

func testCorpus() []Record {
	return []Record{
		{
			ID: 1, DOI: "10.1234/abcd", Title: "Sea ice thickness near Maitri Station",
			Abstract:   "Weekly sea ice thickness from drill holes.",
			Keywords:   []string{"sea ice", "thickness", "Antarctica"},
			Category:   "cryosphere", ISOTopic: "oceans",
			Expedition: domain.ExpeditionAntarctic, Year: 2023,
			Bounds: &domain.BBox{North: -69, South: -71, East: 13, West: 10},
		},
		{
			ID: 2, Title: "Glacier mass balance in the Western Himalaya",
			Abstract:   "Annual mass balance of Chhota Shigri glacier.",
			Keywords:   []string{"glacier", "mass balance"},
			Category:   "cryosphere", ISOTopic: "geoscientificInformation",
			Expedition: domain.ExpeditionHimalaya, Year: 2024,
			Bounds: &domain.BBox{North: 33, South: 32, East: 78, West: 77},
		},
		{
			ID: 3, Title: "Arctic fjord hydrography at Kongsfjorden",
			Abstract:   "CTD profiles and glacier melt influence in the fjord.",
			Keywords:   []string{"hydrography", "CTD", "glacier"},
			Category:   "oceans", ISOTopic: "oceans",
			Expedition: domain.ExpeditionArctic, Year: 2022,
			Bounds: &domain.BBox{North: 79.2, South: 78.8, East: 12.6, West: 11.3},
		},
	}
}

func TestMemorySearchStructuredAND(t *testing.T) {
	m := NewMemory(testCorpus()...)

	got, err := m.Search(context.Background(), Query{Expedition: domain.ExpeditionHimalaya, Year: 2024})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	// AND semantics: matching expedition but wrong year yields nothing.
	got, err = m.Search(context.Background(), Query{Expedition: domain.ExpeditionHimalaya, Year: 2023})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySearchTitleOutranksAbstract(t *testing.T) {
	m := NewMemory(testCorpus()...)

	// "glacier" hits record 2 in title+keywords and record 3 in
	// keywords+abstract; the title match must rank first.
	got, err := m.Search(context.Background(), Query{Terms: []string{"glacier"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestMemorySearchDOIExact(t *testing.T) {
	m := NewMemory(testCorpus()...)

	got, err := m.Search(context.Background(), Query{DOI: "10.1234/abcd"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)

	got, err = m.Search(context.Background(), Query{DOI: "10.9999/none"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySearchTermsExcludeNonMatches(t *testing.T) {
	m := NewMemory(testCorpus()...)

	got, err := m.Search(context.Background(), Query{Terms: []string{"permafrost"}})
	require.NoError(t, err)
	assert.Empty(t, got, "records with zero term score must not appear")
}

func TestMemorySearchBBox(t *testing.T) {
	m := NewMemory(testCorpus()...)

	svalbard := &domain.BBox{North: 80, South: 78, East: 15, West: 10}
	got, err := m.Search(context.Background(), Query{Bounds: svalbard})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestMemorySearchLimit(t *testing.T) {
	m := NewMemory(testCorpus()...)
	got, err := m.Search(context.Background(), Query{Terms: []string{"glacier"}, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryGetAndCount(t *testing.T) {
	m := NewMemory(testCorpus()...)

	rec, err := m.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Contains(t, rec.Title, "Himalaya")

	_, err = m.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := m.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryKeywordsByFrequency(t *testing.T) {
	m := NewMemory(testCorpus()...)

	kws, err := m.Keywords(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, kws, 3)
	assert.Equal(t, "glacier", kws[0], "most frequent keyword first")
}

package index

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarassist/internal/domain"
)

const testSchema = `
CREATE TABLE datasets (
	id             INTEGER PRIMARY KEY,
	doi            TEXT,
	title          TEXT NOT NULL,
	abstract       TEXT,
	keywords       TEXT,
	category       TEXT,
	iso_topic      TEXT,
	expedition     TEXT,
	year           INTEGER,
	temporal_start TEXT,
	temporal_end   TEXT,
	north REAL, south REAL, east REAL, west REAL
);`

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	stmt := `INSERT INTO datasets (id, doi, title, abstract, keywords, category,
		iso_topic, expedition, year, temporal_start, temporal_end, north, south, east, west)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range testCorpus() {
		var north, south, east, west any
		if r.Bounds != nil {
			north, south, east, west = r.Bounds.North, r.Bounds.South, r.Bounds.East, r.Bounds.West
		}
		_, err = db.Exec(stmt, r.ID, r.DOI, r.Title, r.Abstract,
			strings.Join(r.Keywords, ", "), r.Category, r.ISOTopic,
			string(r.Expedition), r.Year, r.TemporalStart, r.TemporalEnd,
			north, south, east, west)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteMatchesMemorySemantics(t *testing.T) {
	s, err := OpenSQLite(newTestDB(t))
	require.NoError(t, err)
	defer s.Close()

	m := NewMemory(testCorpus()...)

	queries := []Query{
		{Expedition: domain.ExpeditionHimalaya, Year: 2024},
		{Terms: []string{"glacier"}},
		{DOI: "10.1234/abcd"},
		{Terms: []string{"permafrost"}},
		{YearFrom: 2023},
		{Category: "oceans"},
	}
	for _, q := range queries {
		want, err := m.Search(context.Background(), q)
		require.NoError(t, err)
		got, err := s.Search(context.Background(), q)
		require.NoError(t, err)

		require.Len(t, got, len(want), "query %+v", q)
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, "query %+v position %d", q, i)
		}
	}
}

func TestSQLiteGetCountKeywords(t *testing.T) {
	s, err := OpenSQLite(newTestDB(t))
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "10.1234/abcd", rec.DOI)
	require.NotNil(t, rec.Bounds)
	assert.InDelta(t, -69, rec.Bounds.North, 0.001)
	assert.Equal(t, []string{"sea ice", "thickness", "Antarctica"}, rec.Keywords)

	_, err = s.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	kws, err := s.Keywords(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, kws, 2)
	assert.Equal(t, "glacier", kws[0])
}

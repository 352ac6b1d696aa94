package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"polarassist/internal/domain"
)

// SQLite reads the portal's published-dataset snapshot. Expected schema:
//
//	CREATE TABLE datasets (
//	    id             INTEGER PRIMARY KEY,
//	    doi            TEXT,
//	    title          TEXT NOT NULL,
//	    abstract       TEXT,
//	    keywords       TEXT,    -- comma-separated
//	    category       TEXT,
//	    iso_topic      TEXT,
//	    expedition     TEXT,
//	    year           INTEGER,
//	    temporal_start TEXT,
//	    temporal_end   TEXT,
//	    north REAL, south REAL, east REAL, west REAL
//	);
//
// The database is opened read-only; this package never mutates it.
type SQLite struct {
	db *sql.DB
}

var _ Index = (*SQLite)(nil)

// OpenSQLite opens a dataset snapshot read-only.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open dataset index %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

const recordColumns = `id, doi, title, abstract, keywords, category, iso_topic,
	expedition, year, temporal_start, temporal_end, north, south, east, west`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var (
		r                        Record
		doi, abstract, keywords  sql.NullString
		category, isoTopic       sql.NullString
		expedition               sql.NullString
		year                     sql.NullInt64
		tStart, tEnd             sql.NullString
		north, south, east, west sql.NullFloat64
	)
	err := row.Scan(&r.ID, &doi, &r.Title, &abstract, &keywords, &category,
		&isoTopic, &expedition, &year, &tStart, &tEnd, &north, &south, &east, &west)
	if err != nil {
		return Record{}, err
	}
	r.DOI = doi.String
	r.Abstract = abstract.String
	if keywords.String != "" {
		for _, kw := range strings.Split(keywords.String, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				r.Keywords = append(r.Keywords, kw)
			}
		}
	}
	r.Category = category.String
	r.ISOTopic = isoTopic.String
	r.Expedition = domain.Expedition(expedition.String)
	r.Year = int(year.Int64)
	r.TemporalStart = tStart.String
	r.TemporalEnd = tEnd.String
	if north.Valid && south.Valid && east.Valid && west.Valid {
		r.Bounds = &domain.BBox{
			North: north.Float64, South: south.Float64,
			East: east.Float64, West: west.Float64,
		}
	}
	return r, nil
}

// Search narrows with SQL predicates and ranks the survivors in memory,
// so SQLite and Memory order results identically.
func (s *SQLite) Search(ctx context.Context, q Query) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		where = append(where, cond)
		args = append(args, val)
	}
	if q.DOI != "" {
		add("doi = ? COLLATE NOCASE", q.DOI)
	}
	if q.Expedition != "" {
		add("expedition = ?", string(q.Expedition))
	}
	if q.Category != "" {
		add("category = ?", q.Category)
	}
	if q.ISOTopic != "" {
		add("iso_topic = ?", q.ISOTopic)
	}
	if q.Year != 0 {
		add("year = ?", q.Year)
	}
	if q.YearFrom != 0 {
		add("year >= ?", q.YearFrom)
	}
	if q.YearTo != 0 {
		add("year <= ?", q.YearTo)
	}

	query := "SELECT " + recordColumns + " FROM datasets"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dataset index: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}
	return rank(records, q), nil
}

func (s *SQLite) Get(ctx context.Context, id int) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM datasets WHERE id = ?", id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get dataset %d: %w", id, err)
	}
	return r, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM datasets").Scan(&n); err != nil {
		return 0, fmt.Errorf("count datasets: %w", err)
	}
	return n, nil
}

func (s *SQLite) Keywords(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT keywords FROM datasets WHERE keywords IS NOT NULL AND keywords != ''")
	if err != nil {
		return nil, fmt.Errorf("query dataset keywords: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan keywords: %w", err)
		}
		var r Record
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				r.Keywords = append(r.Keywords, kw)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return topKeywords(records, limit), nil
}

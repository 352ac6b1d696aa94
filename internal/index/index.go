// Package index provides read-only access to the published dataset corpus:
// structured filtering plus weighted keyword ranking. The assistance layer
// never writes to the corpus.
package index

import (
	"context"
	"errors"
	"sort"
	"strings"

	"polarassist/internal/domain"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("dataset not found")

// Record is one published dataset as the assistance layer sees it.
type Record struct {
	ID            int
	DOI           string
	Title         string
	Abstract      string
	Keywords      []string
	Category      string
	ISOTopic      string
	Expedition    domain.Expedition
	Year          int
	TemporalStart string
	TemporalEnd   string
	Bounds        *domain.BBox
}

// Query is a structured corpus query. Zero-valued fields do not constrain.
// Structured fields combine as AND; Terms rank the survivors.
type Query struct {
	DOI        string
	Expedition domain.Expedition
	Category   string
	ISOTopic   string
	Year       int
	YearFrom   int
	YearTo     int
	Bounds     *domain.BBox
	Terms      []string
	Limit      int
}

// Empty reports whether the query constrains nothing.
func (q Query) Empty() bool {
	return q.DOI == "" && q.Expedition == "" && q.Category == "" && q.ISOTopic == "" &&
		q.Year == 0 && q.YearFrom == 0 && q.YearTo == 0 && q.Bounds == nil && len(q.Terms) == 0
}

// Index is the read-only corpus contract.
type Index interface {
	// Search applies the query and returns matches best-first.
	Search(ctx context.Context, q Query) ([]Record, error)
	// Get fetches one record by ID.
	Get(ctx context.Context, id int) (Record, error)
	// Count reports the number of published datasets.
	Count(ctx context.Context) (int, error)
	// Keywords returns up to limit corpus keywords by descending frequency.
	Keywords(ctx context.Context, limit int) ([]string, error)
}

// Term-match weights. Title and keyword hits dominate abstract hits.
const (
	weightTitle    = 3
	weightKeyword  = 2
	weightAbstract = 1
)

// score ranks a record against search terms. Zero means no term matched.
func score(r Record, terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(r.Title)
	abstract := strings.ToLower(r.Abstract)
	total := 0
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(title, t) {
			total += weightTitle
		}
		for _, kw := range r.Keywords {
			if strings.Contains(strings.ToLower(kw), t) {
				total += weightKeyword
				break
			}
		}
		if strings.Contains(abstract, t) {
			total += weightAbstract
		}
	}
	return total
}

// matchesStructured applies the AND-combined structured predicates.
func matchesStructured(r Record, q Query) bool {
	if q.DOI != "" && !strings.EqualFold(r.DOI, q.DOI) {
		return false
	}
	if q.Expedition != "" && r.Expedition != q.Expedition {
		return false
	}
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	if q.ISOTopic != "" && r.ISOTopic != q.ISOTopic {
		return false
	}
	if q.Year != 0 && r.Year != q.Year {
		return false
	}
	if q.YearFrom != 0 && r.Year < q.YearFrom {
		return false
	}
	if q.YearTo != 0 && r.Year > q.YearTo {
		return false
	}
	if q.Bounds != nil {
		if r.Bounds == nil || !q.Bounds.Intersects(*r.Bounds) {
			return false
		}
	}
	return true
}

// rank filters and orders records for a query. With terms present, only
// records with a positive term score survive; without terms, structured
// matches come back newest-first.
func rank(records []Record, q Query) []Record {
	type scored struct {
		rec Record
		s   int
	}
	var hits []scored
	for _, r := range records {
		if !matchesStructured(r, q) {
			continue
		}
		s := 0
		if len(q.Terms) > 0 {
			if s = score(r, q.Terms); s == 0 {
				continue
			}
		}
		hits = append(hits, scored{r, s})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].s != hits[j].s {
			return hits[i].s > hits[j].s
		}
		if hits[i].rec.Year != hits[j].rec.Year {
			return hits[i].rec.Year > hits[j].rec.Year
		}
		return hits[i].rec.ID < hits[j].rec.ID
	})

	limit := q.Limit
	if limit <= 0 || limit > len(hits) {
		limit = len(hits)
	}
	out := make([]Record, 0, limit)
	for _, h := range hits[:limit] {
		out = append(out, h.rec)
	}
	return out
}

// topKeywords counts keyword frequency across records, case-insensitively,
// and returns the most common spellings.
func topKeywords(records []Record, limit int) []string {
	counts := make(map[string]int)
	spelling := make(map[string]string)
	for _, r := range records {
		for _, kw := range r.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			key := strings.ToLower(kw)
			counts[key]++
			if _, ok := spelling[key]; !ok {
				spelling[key] = kw
			}
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = spelling[k]
	}
	return out
}

package index

import (
	"context"
	"sync"
)

// Memory is an in-memory Index, used in tests and for small corpora loaded
// at startup.
type Memory struct {
	mu      sync.RWMutex
	records []Record
	byID    map[int]Record
}

var _ Index = (*Memory)(nil)

func NewMemory(records ...Record) *Memory {
	m := &Memory{byID: make(map[int]Record, len(records))}
	for _, r := range records {
		m.records = append(m.records, r)
		m.byID[r.ID] = r
	}
	return m
}

func (m *Memory) Search(_ context.Context, q Query) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rank(m.records, q), nil
}

func (m *Memory) Get(_ context.Context, id int) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *Memory) Keywords(_ context.Context, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return topKeywords(m.records, limit), nil
}

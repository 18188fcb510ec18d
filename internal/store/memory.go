package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// MemoryStore keeps encoded reports in process memory. Reports are stored as
// JSON so loaded values never alias what callers appended.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[domain.Collection][][]byte // newest first
	ids     map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[domain.Collection][][]byte),
		ids:     make(map[string]struct{}),
	}
}

func (m *MemoryStore) Append(_ context.Context, c domain.Collection, r domain.Report) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[r.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateReport, r.ID)
	}
	m.ids[r.ID] = struct{}{}
	m.reports[c] = slices.Insert(m.reports[c], 0, data)
	return nil
}

func (m *MemoryStore) LoadAll(_ context.Context, c domain.Collection) ([]domain.Report, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	m.mu.RLock()
	payloads := slices.Clone(m.reports[c])
	m.mu.RUnlock()

	return decodeReports(payloads)
}

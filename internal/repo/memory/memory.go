package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/healthmon/internal/domain"
)

// Store is an in-process ReportStore with a single slot.
type Store struct {
	mu     sync.RWMutex
	latest *domain.Report
}

func New() *Store {
	return &Store{}
}

func (m *Store) Save(ctx context.Context, r domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest != nil && r.Timestamp.Before(m.latest.Timestamp) {
		return nil
	}
	m.latest = &r
	return nil
}

func (m *Store) Latest(ctx context.Context) (domain.Report, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return domain.Report{}, false, nil
	}
	return *m.latest, true, nil
}

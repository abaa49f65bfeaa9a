package climatearchive

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/ecosense/internal/domain/climate"
)

// MemoryArchive keeps yearly records in process memory.
type MemoryArchive struct {
	mu      sync.RWMutex
	records []climate.YearRecord
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{}
}

// Load returns a copy of the stored records.
func (a *MemoryArchive) Load(context.Context) ([]climate.YearRecord, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.records), len(a.records) > 0, nil
}

// Store replaces the stored records.
func (a *MemoryArchive) Store(_ context.Context, records []climate.YearRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = slices.Clone(records)
	return nil
}

var _ climate.Archive = (*MemoryArchive)(nil)

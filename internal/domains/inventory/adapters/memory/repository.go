package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	"github.com/widgetco/fulfillment/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	bom       []domain.BOMEntry
	levels    map[string]int
	nextBOMID int64
}

func NewRepository() *Repository {
	return &Repository{levels: map[string]int{}}
}

func (r *Repository) CreateBOMEntry(_ context.Context, entry domain.BOMEntry) (domain.BOMEntry, error) {
	if err := entry.Validate(); err != nil {
		return domain.BOMEntry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bom {
		if existing.Product == entry.Product && existing.Part == entry.Part {
			return domain.BOMEntry{}, domain.ErrDuplicateBOMEntry
		}
	}
	r.nextBOMID++
	entry.ID = r.nextBOMID
	r.bom = append(r.bom, entry)
	return entry, nil
}

func (r *Repository) BOMForProduct(_ context.Context, product string) ([]domain.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []domain.BOMEntry
	for _, entry := range r.bom {
		if entry.Product == product {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Part < entries[j].Part })
	return entries, nil
}

func (r *Repository) ListBOM(_ context.Context) ([]domain.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.BOMEntry, len(r.bom))
	copy(entries, r.bom)
	return entries, nil
}

func (r *Repository) UpsertLevel(_ context.Context, level domain.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[level.Part] = level.Quantity
	return nil
}

func (r *Repository) GetLevel(_ context.Context, part string) (domain.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quantity, ok := r.levels[part]
	if !ok {
		return domain.Level{}, ports.ErrNotFound
	}
	return domain.Level{Part: part, Quantity: quantity}, nil
}

func (r *Repository) ListLevels(_ context.Context) ([]domain.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	levels := make([]domain.Level, 0, len(r.levels))
	for part, quantity := range r.levels {
		levels = append(levels, domain.Level{Part: part, Quantity: quantity})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Part < levels[j].Part })
	return levels, nil
}

func (r *Repository) DeductBatch(_ context.Context, deductions map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for part := range deductions {
		if _, ok := r.levels[part]; !ok {
			return ports.ErrNotFound
		}
	}
	for part, quantity := range deductions {
		r.levels[part] -= quantity
	}
	return nil
}

func (r *Repository) SetLevels(_ context.Context, levels []domain.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, level := range levels {
		r.levels[level.Part] = level.Quantity
	}
	return nil
}

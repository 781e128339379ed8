package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/widgetco/fulfillment/internal/domains/production/domain"
	"github.com/widgetco/fulfillment/internal/domains/production/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory production-tracking persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	records map[int64]*domain.StageRecord
	nextID  int64
}

func NewRepository() *Repository {
	return &Repository{records: map[int64]*domain.StageRecord{}}
}

func (r *Repository) CreateBatch(_ context.Context, records []*domain.StageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		r.nextID++
		clone := *record
		clone.TrackingID = r.nextID
		record.TrackingID = r.nextID
		r.records[clone.TrackingID] = &clone
	}
	return nil
}

func (r *Repository) ListByOrder(_ context.Context, orderID int64) ([]*domain.StageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.StageRecord
	for _, record := range r.records {
		if record.OrderID == orderID {
			clone := *record
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TrackingID < list[j].TrackingID })
	return list, nil
}

func (r *Repository) SaveBatch(_ context.Context, records []*domain.StageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		if _, ok := r.records[record.TrackingID]; !ok {
			return ports.ErrNotFound
		}
	}
	for _, record := range records {
		clone := *record
		r.records[clone.TrackingID] = &clone
	}
	return nil
}

package sqldb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/widgetco/fulfillment/internal/domains/production/domain"
	"github.com/widgetco/fulfillment/internal/domains/production/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists production stage records through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&stageRecord{})
	}
	return repo
}

type stageRecord struct {
	TrackingID  int64      `gorm:"primaryKey;column:tracking_id"`
	OrderID     int64      `gorm:"column:order_id;index"`
	Stage       string     `gorm:"column:stage;type:varchar(32)"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	DueAt       *time.Time `gorm:"column:due_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (stageRecord) TableName() string { return "production_tracking" }

// CreateBatch inserts all stage records of one order in a single store
// transaction.
func (r *Repository) CreateBatch(ctx context.Context, records []*domain.StageRecord) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			row := toRecord(record)
			row.TrackingID = 0
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			record.TrackingID = row.TrackingID
		}
		return nil
	})
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.StageRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []stageRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("tracking_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*domain.StageRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toDomain())
	}
	return records, nil
}

// SaveBatch updates a stage transition's write-set (the completed stage and,
// when present, the newly started successor) in a single store transaction.
func (r *Repository) SaveBatch(ctx context.Context, records []*domain.StageRecord) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			row := toRecord(record)
			result := tx.Model(&stageRecord{}).
				Where("tracking_id = ?", row.TrackingID).
				Updates(map[string]any{
					"started_at":   row.StartedAt,
					"due_at":       row.DueAt,
					"completed_at": row.CompletedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ports.ErrNotFound
			}
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("production repository not configured")
	}
	return nil
}

func toRecord(record *domain.StageRecord) stageRecord {
	return stageRecord{
		TrackingID:  record.TrackingID,
		OrderID:     record.OrderID,
		Stage:       string(record.Stage),
		StartedAt:   record.StartedAt,
		DueAt:       record.DueAt,
		CompletedAt: record.CompletedAt,
	}
}

func (r stageRecord) toDomain() *domain.StageRecord {
	return &domain.StageRecord{
		TrackingID:  r.TrackingID,
		OrderID:     r.OrderID,
		Stage:       domain.Stage(r.Stage),
		StartedAt:   r.StartedAt,
		DueAt:       r.DueAt,
		CompletedAt: r.CompletedAt,
	}
}

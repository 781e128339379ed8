package sqldb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	"github.com/widgetco/fulfillment/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the bill of materials and stock levels through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bomRecord{}, &levelRecord{})
	}
	return repo
}

type bomRecord struct {
	ID             int64   `gorm:"primaryKey;column:id"`
	Product        string  `gorm:"column:product;type:varchar(32);uniqueIndex:idx_bom_product_part"`
	Part           string  `gorm:"column:part;uniqueIndex:idx_bom_product_part"`
	QuantityNeeded int     `gorm:"column:quantity_needed"`
	UnitCost       float64 `gorm:"column:unit_cost"`
}

func (bomRecord) TableName() string { return "bom" }

type levelRecord struct {
	Part     string `gorm:"primaryKey;column:part"`
	Quantity int    `gorm:"column:quantity"`
}

func (levelRecord) TableName() string { return "inventory_levels" }

func (r *Repository) CreateBOMEntry(ctx context.Context, entry domain.BOMEntry) (domain.BOMEntry, error) {
	if err := r.ensureDB(); err != nil {
		return domain.BOMEntry{}, err
	}
	record := bomRecord{
		Product:        entry.Product,
		Part:           entry.Part,
		QuantityNeeded: entry.QuantityNeeded,
		UnitCost:       entry.UnitCost,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.BOMEntry{}, domain.ErrDuplicateBOMEntry
		}
		return domain.BOMEntry{}, err
	}
	entry.ID = record.ID
	return entry, nil
}

func (r *Repository) BOMForProduct(ctx context.Context, product string) ([]domain.BOMEntry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bomRecord
	if err := r.db.WithContext(ctx).
		Where("product = ?", product).
		Order("part").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntries(records), nil
}

func (r *Repository) ListBOM(ctx context.Context) ([]domain.BOMEntry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bomRecord
	if err := r.db.WithContext(ctx).Order("product, part").Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntries(records), nil
}

func (r *Repository) UpsertLevel(ctx context.Context, level domain.Level) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := levelRecord{Part: level.Part, Quantity: level.Quantity}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": record.Quantity}),
		}).Create(&record).Error
}

func (r *Repository) GetLevel(ctx context.Context, part string) (domain.Level, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Level{}, err
	}
	var record levelRecord
	if err := r.db.WithContext(ctx).First(&record, "part = ?", part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Level{}, ports.ErrNotFound
		}
		return domain.Level{}, err
	}
	return domain.Level{Part: record.Part, Quantity: record.Quantity}, nil
}

func (r *Repository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []levelRecord
	if err := r.db.WithContext(ctx).Order("part").Find(&records).Error; err != nil {
		return nil, err
	}
	levels := make([]domain.Level, 0, len(records))
	for _, record := range records {
		levels = append(levels, domain.Level{Part: record.Part, Quantity: record.Quantity})
	}
	return levels, nil
}

// DeductBatch applies every deduction of one reservation in a single store
// transaction so a crash cannot leave the write-set half applied.
func (r *Repository) DeductBatch(ctx context.Context, deductions map[string]int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for part, quantity := range deductions {
			result := tx.Model(&levelRecord{}).
				Where("part = ?", part).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
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

// SetLevels writes the restocked quantities of one replenishment pass in a
// single store transaction.
func (r *Repository) SetLevels(ctx context.Context, levels []domain.Level) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, level := range levels {
			record := levelRecord{Part: level.Part, Quantity: level.Quantity}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "part"}},
				DoUpdates: clause.Assignments(map[string]any{"quantity": record.Quantity}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("inventory repository not configured")
	}
	return nil
}

func toEntries(records []bomRecord) []domain.BOMEntry {
	entries := make([]domain.BOMEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, domain.BOMEntry{
			ID:             record.ID,
			Product:        record.Product,
			Part:           record.Part,
			QuantityNeeded: record.QuantityNeeded,
			UnitCost:       record.UnitCost,
		})
	}
	return entries
}

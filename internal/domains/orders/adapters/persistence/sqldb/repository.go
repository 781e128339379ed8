package sqldb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders through GORM. The same adapter serves the
// SQLite and PostgreSQL store backends; the caller manages the DB lifecycle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to the orders table.
type orderRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	Customer          string     `gorm:"column:customer"`
	Product           string     `gorm:"column:product;type:varchar(32);index:idx_orders_status_product"`
	Quantity          int        `gorm:"column:quantity"`
	UnitPrice         float64    `gorm:"column:unit_price"`
	OrderedAt         time.Time  `gorm:"column:ordered_at"`
	Status            string     `gorm:"column:status;type:varchar(32);index:idx_orders_status_product"`
	ShippedAt         *time.Time `gorm:"column:shipped_at"`
	PredictedShipDate time.Time  `gorm:"column:predicted_ship_date"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"customer":            record.Customer,
			"product":             record.Product,
			"quantity":            record.Quantity,
			"unit_price":          record.UnitPrice,
			"ordered_at":          record.OrderedAt,
			"status":              record.Status,
			"shipped_at":          record.ShippedAt,
			"predicted_ship_date": record.PredictedShipDate,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                order.ID,
		Customer:          order.Customer,
		Product:           string(order.Product),
		Quantity:          order.Quantity,
		UnitPrice:         order.UnitPrice,
		OrderedAt:         order.OrderedAt,
		Status:            string(order.Status),
		ShippedAt:         order.ShippedAt,
		PredictedShipDate: order.PredictedShipDate,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                r.ID,
		Customer:          r.Customer,
		Product:           domain.Product(r.Product),
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		OrderedAt:         r.OrderedAt,
		Status:            domain.Status(r.Status),
		ShippedAt:         r.ShippedAt,
		PredictedShipDate: r.PredictedShipDate,
	}
}

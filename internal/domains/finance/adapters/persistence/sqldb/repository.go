package sqldb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
	"github.com/widgetco/fulfillment/internal/domains/finance/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the financial store through GORM. Only inserts and
// reads are implemented; the log's immutability is structural.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&transactionRecord{}, &employeeRecord{})
	}
	return repo
}

type transactionRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Type        string    `gorm:"column:type;type:varchar(32);index"`
	Amount      float64   `gorm:"column:amount"`
	Date        time.Time `gorm:"column:date"`
	Description string    `gorm:"column:description"`
	RelatedID   *int64    `gorm:"column:related_id;index"`
}

func (transactionRecord) TableName() string { return "financial_transactions" }

type employeeRecord struct {
	ID           int64   `gorm:"primaryKey;column:id"`
	Name         string  `gorm:"column:name"`
	Title        string  `gorm:"column:title"`
	WeeklySalary float64 `gorm:"column:weekly_salary"`
}

func (employeeRecord) TableName() string { return "employees" }

func (r *Repository) Append(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, errors.New("transaction is nil")
	}
	record := transactionRecord{
		Type:        string(transaction.Type),
		Amount:      transaction.Amount,
		Date:        transaction.Date,
		Description: transaction.Description,
		RelatedID:   transaction.RelatedID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []transactionRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toTransactions(records), nil
}

func (r *Repository) ListByType(ctx context.Context, transactionType domain.TransactionType) ([]*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []transactionRecord
	if err := r.db.WithContext(ctx).
		Where("type = ?", string(transactionType)).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toTransactions(records), nil
}

func (r *Repository) FindRelated(ctx context.Context, transactionType domain.TransactionType, relatedID int64) ([]*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []transactionRecord
	if err := r.db.WithContext(ctx).
		Where("type = ? AND related_id = ?", string(transactionType), relatedID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toTransactions(records), nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	record := employeeRecord{
		Name:         employee.Name,
		Title:        employee.Title,
		WeeklySalary: employee.WeeklySalary,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &domain.Employee{
		ID:           record.ID,
		Name:         record.Name,
		Title:        record.Title,
		WeeklySalary: record.WeeklySalary,
	}, nil
}

func (r *Repository) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []employeeRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	employees := make([]*domain.Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, &domain.Employee{
			ID:           record.ID,
			Name:         record.Name,
			Title:        record.Title,
			WeeklySalary: record.WeeklySalary,
		})
	}
	return employees, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("finance repository not configured")
	}
	return nil
}

func toTransactions(records []transactionRecord) []*domain.Transaction {
	transactions := make([]*domain.Transaction, 0, len(records))
	for i := range records {
		transactions = append(transactions, records[i].toDomain())
	}
	return transactions
}

func (r transactionRecord) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:          r.ID,
		Type:        domain.TransactionType(r.Type),
		Amount:      r.Amount,
		Date:        r.Date,
		Description: r.Description,
		RelatedID:   r.RelatedID,
	}
}

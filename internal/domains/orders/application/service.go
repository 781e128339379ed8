package application

import (
	"context"
	"time"

	"github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/domains/orders/ports"
)

// CreateOrderInput captures the fields required to register a new order.
type CreateOrderInput struct {
	Customer          string
	Product           domain.Product
	Quantity          int
	UnitPrice         float64
	OrderedAt         time.Time
	PredictedShipDate time.Time
}

// Service exposes the order ledger use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new order in the received state.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(input.Customer, input.Product, input.Quantity, input.UnitPrice, input.OrderedAt, input.PredictedShipDate)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStatus returns all orders currently in the given state, ordered by id.
func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return s.repo.ListByStatus(ctx, status)
}

// MarkProcessing moves an order from received to processing.
func (s *Service) MarkProcessing(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.BeginProcessing(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// MarkShipped moves an order from processing to shipped and stamps the ship date.
func (s *Service) MarkShipped(ctx context.Context, id int64, shippedAt time.Time) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Ship(shippedAt); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

package domain

import (
	"errors"
	"time"
)

// Status enumerates order progression. Transitions are one-directional:
// received -> processing -> shipped.
type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
)

// Product enumerates the fixed widget catalog.
type Product string

const (
	ProductWidgetPro     Product = "Widget_Pro"
	ProductWidget        Product = "Widget"
	ProductWidgetClassic Product = "Widget_Classic"
)

// Products lists the catalog in a stable order.
var Products = []Product{ProductWidgetPro, ProductWidget, ProductWidgetClassic}

var (
	ErrInvalidCustomer   = errors.New("customer name must not be empty")
	ErrUnknownProduct    = errors.New("product type is not in the catalog")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice  = errors.New("unit price must be greater than zero")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is invalid")
)

// Order models a customer purchase order aggregate.
type Order struct {
	ID                int64
	Customer          string
	Product           Product
	Quantity          int
	UnitPrice         float64
	OrderedAt         time.Time
	Status            Status
	ShippedAt         *time.Time
	PredictedShipDate time.Time
}

// NewOrder validates and constructs an order in the received state.
func NewOrder(customer string, product Product, quantity int, unitPrice float64, orderedAt time.Time, predictedShipDate time.Time) (*Order, error) {
	order := &Order{
		Customer:          customer,
		Product:           product,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		OrderedAt:         orderedAt,
		Status:            StatusReceived,
		PredictedShipDate: predictedShipDate,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Customer == "" {
		return ErrInvalidCustomer
	}
	if !IsValidProduct(o.Product) {
		return ErrUnknownProduct
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.UnitPrice <= 0 {
		return ErrInvalidUnitPrice
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	if (o.ShippedAt != nil) != (o.Status == StatusShipped) {
		return ErrInvalidStatus
	}
	return nil
}

// BeginProcessing moves the order from received to processing.
func (o *Order) BeginProcessing() error {
	if o.Status != StatusReceived {
		return ErrInvalidTransition
	}
	o.Status = StatusProcessing
	return nil
}

// Ship moves the order from processing to shipped and stamps the ship date.
func (o *Order) Ship(shippedAt time.Time) error {
	if o.Status != StatusProcessing {
		return ErrInvalidTransition
	}
	o.Status = StatusShipped
	o.ShippedAt = &shippedAt
	return nil
}

// Total returns the order's sale value.
func (o *Order) Total() float64 {
	return float64(o.Quantity) * o.UnitPrice
}

// IsValidProduct reports whether the product is part of the catalog.
func IsValidProduct(product Product) bool {
	switch product {
	case ProductWidgetPro, ProductWidget, ProductWidgetClassic:
		return true
	default:
		return false
	}
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusReceived, StatusProcessing, StatusShipped:
		return true
	default:
		return false
	}
}

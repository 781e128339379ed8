package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/widgetco/fulfillment/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the order store service.
type OrdersAPI struct {
	service *ordersapp.Service
}

func NewOrdersAPI(service *ordersapp.Service) OrdersAPI {
	return OrdersAPI{service: service}
}

type createOrderRequest struct {
	Customer          string     `json:"customer" binding:"required"`
	Product           string     `json:"product" binding:"required"`
	Quantity          int        `json:"quantity" binding:"required"`
	UnitPrice         float64    `json:"unit_price" binding:"required"`
	OrderedAt         *time.Time `json:"ordered_at"`
	PredictedShipDate *time.Time `json:"predicted_ship_date"`
}

type orderResponse struct {
	ID                int64      `json:"id"`
	Customer          string     `json:"customer"`
	Product           string     `json:"product"`
	Quantity          int        `json:"quantity"`
	UnitPrice         float64    `json:"unit_price"`
	Total             float64    `json:"total"`
	OrderedAt         time.Time  `json:"ordered_at"`
	Status            string     `json:"status"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	PredictedShipDate time.Time  `json:"predicted_ship_date"`
}

// Post /v1/orders
// Register a new order in the received state
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	orderedAt := time.Now().UTC()
	if payload.OrderedAt != nil {
		orderedAt = *payload.OrderedAt
	}
	predicted := orderedAt.AddDate(0, 0, 10)
	if payload.PredictedShipDate != nil {
		predicted = *payload.PredictedShipDate
	}
	order, err := api.service.Create(c.Request.Context(), ordersapp.CreateOrderInput{
		Customer:          payload.Customer,
		Product:           ordersdomain.Product(payload.Product),
		Quantity:          payload.Quantity,
		UnitPrice:         payload.UnitPrice,
		OrderedAt:         orderedAt,
		PredictedShipDate: predicted,
	})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get /v1/orders/:orderId
// Load a single order
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Get /v1/orders?status=received
// List orders in a given state
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	status := ordersdomain.Status(c.DefaultQuery("status", string(ordersdomain.StatusReceived)))
	orders, err := api.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, responses)
}

func toOrderResponse(order *ordersdomain.Order) orderResponse {
	return orderResponse{
		ID:                order.ID,
		Customer:          order.Customer,
		Product:           string(order.Product),
		Quantity:          order.Quantity,
		UnitPrice:         order.UnitPrice,
		Total:             order.Total(),
		OrderedAt:         order.OrderedAt,
		Status:            string(order.Status),
		ShippedAt:         order.ShippedAt,
		PredictedShipDate: order.PredictedShipDate,
	}
}

func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

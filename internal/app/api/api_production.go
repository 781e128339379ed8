package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	productiondomain "github.com/widgetco/fulfillment/internal/domains/production/domain"
	productionports "github.com/widgetco/fulfillment/internal/domains/production/ports"
)

// ProductionAPI wires HTTP transport with the production store tracker.
type ProductionAPI struct {
	tracker *productionapp.Tracker
}

func NewProductionAPI(tracker *productionapp.Tracker) ProductionAPI {
	return ProductionAPI{tracker: tracker}
}

type stageRecordResponse struct {
	TrackingID  int64      `json:"tracking_id"`
	OrderID     int64      `json:"order_id"`
	Stage       string     `json:"stage"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Get /v1/production/orders/:orderId
// List an order's stage records in pipeline order
func (api *ProductionAPI) GetPipeline(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	records, err := api.tracker.ListByOrder(c.Request.Context(), id)
	if err != nil {
		respondProductionServiceError(c, err)
		return
	}
	if len(records) == 0 {
		respondError(c, http.StatusNotFound, productiondomain.ErrUnknownOrder)
		return
	}
	responses := make([]stageRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, stageRecordResponse{
			TrackingID:  record.TrackingID,
			OrderID:     record.OrderID,
			Stage:       string(record.Stage),
			StartedAt:   record.StartedAt,
			DueAt:       record.DueAt,
			CompletedAt: record.CompletedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}

func respondProductionServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, productiondomain.ErrUnknownOrder), errors.Is(err, productionports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	inventoryports "github.com/widgetco/fulfillment/internal/domains/inventory/ports"
)

// InventoryAPI wires HTTP transport with the inventory store service.
type InventoryAPI struct {
	service *inventoryapp.Service
}

func NewInventoryAPI(service *inventoryapp.Service) InventoryAPI {
	return InventoryAPI{service: service}
}

type levelResponse struct {
	Part     string `json:"part"`
	Quantity int    `json:"quantity"`
}

type bomEntryResponse struct {
	ID             int64   `json:"id"`
	Product        string  `json:"product"`
	Part           string  `json:"part"`
	QuantityNeeded int     `json:"quantity_needed"`
	UnitCost       float64 `json:"unit_cost"`
}

type shortfallResponse struct {
	Part      string `json:"part"`
	Needed    int    `json:"needed"`
	Available int    `json:"available"`
}

type availabilityResponse struct {
	Sufficient bool                `json:"sufficient"`
	Shortfalls []shortfallResponse `json:"shortfalls,omitempty"`
}

// Get /v1/inventory/levels
// List current stock of every part
func (api *InventoryAPI) ListLevels(c *gin.Context) {
	levels, err := api.service.ListLevels(c.Request.Context())
	if err != nil {
		respondInventoryServiceError(c, err)
		return
	}
	responses := make([]levelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, levelResponse{Part: level.Part, Quantity: level.Quantity})
	}
	c.JSON(http.StatusOK, responses)
}

type setLevelRequest struct {
	Quantity int `json:"quantity"`
}

// Put /v1/inventory/levels/:part
// Establish the stock level of a part
func (api *InventoryAPI) SetLevel(c *gin.Context) {
	part := c.Param("part")
	var payload setLevelRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	level := inventorydomain.Level{Part: part, Quantity: payload.Quantity}
	if err := api.service.SetLevel(c.Request.Context(), level); err != nil {
		respondInventoryServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, levelResponse{Part: level.Part, Quantity: level.Quantity})
}

// Get /v1/inventory/bom
// List every bill of materials entry
func (api *InventoryAPI) ListBOM(c *gin.Context) {
	entries, err := api.service.ListBOM(c.Request.Context())
	if err != nil {
		respondInventoryServiceError(c, err)
		return
	}
	responses := make([]bomEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toBOMEntryResponse(entry))
	}
	c.JSON(http.StatusOK, responses)
}

type addBOMEntryRequest struct {
	Product        string  `json:"product" binding:"required"`
	Part           string  `json:"part" binding:"required"`
	QuantityNeeded int     `json:"quantity_needed" binding:"required"`
	UnitCost       float64 `json:"unit_cost" binding:"required"`
}

// Post /v1/inventory/bom
// Register a bill of materials entry (bootstrap only)
func (api *InventoryAPI) AddBOMEntry(c *gin.Context) {
	var payload addBOMEntryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.AddBOMEntry(c.Request.Context(), inventorydomain.BOMEntry{
		Product:        payload.Product,
		Part:           payload.Part,
		QuantityNeeded: payload.QuantityNeeded,
		UnitCost:       payload.UnitCost,
	})
	if err != nil {
		respondInventoryServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBOMEntryResponse(saved))
}

// Get /v1/inventory/availability?product=Widget&quantity=10
// Read-only stock check for a build
func (api *InventoryAPI) CheckAvailability(c *gin.Context) {
	product := c.Query("product")
	quantity, ok := parseQuantityQuery(c)
	if !ok {
		return
	}
	availability, err := api.service.CheckAvailability(c.Request.Context(), product, quantity)
	if err != nil {
		respondInventoryServiceError(c, err)
		return
	}
	response := availabilityResponse{Sufficient: availability.Sufficient}
	for _, shortfall := range availability.Shortfalls {
		response.Shortfalls = append(response.Shortfalls, shortfallResponse(shortfall))
	}
	c.JSON(http.StatusOK, response)
}

func toBOMEntryResponse(entry inventorydomain.BOMEntry) bomEntryResponse {
	return bomEntryResponse{
		ID:             entry.ID,
		Product:        entry.Product,
		Part:           entry.Part,
		QuantityNeeded: entry.QuantityNeeded,
		UnitCost:       entry.UnitCost,
	}
}

func parseQuantityQuery(c *gin.Context) (int, bool) {
	var query struct {
		Quantity int `form:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return query.Quantity, true
}

func respondInventoryServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventoryports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, inventorydomain.ErrDuplicateBOMEntry):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, inventoryapp.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

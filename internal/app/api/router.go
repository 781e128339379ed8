package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the per-store transport adapters.
type Handlers struct {
	Orders      OrdersAPI
	Inventory   InventoryAPI
	Production  ProductionAPI
	Finance     FinanceAPI
	Fulfillment FulfillmentAPI
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/orders", h.Orders.CreateOrder)
		v1.GET("/orders", h.Orders.ListOrders)
		v1.GET("/orders/:orderId", h.Orders.GetOrder)

		v1.GET("/inventory/levels", h.Inventory.ListLevels)
		v1.PUT("/inventory/levels/:part", h.Inventory.SetLevel)
		v1.GET("/inventory/bom", h.Inventory.ListBOM)
		v1.POST("/inventory/bom", h.Inventory.AddBOMEntry)
		v1.GET("/inventory/availability", h.Inventory.CheckAvailability)

		v1.GET("/production/orders/:orderId", h.Production.GetPipeline)

		v1.GET("/finance/transactions", h.Finance.ListTransactions)
		v1.GET("/finance/summary", h.Finance.Summarize)
		v1.GET("/finance/employees", h.Finance.ListEmployees)
		v1.POST("/finance/employees", h.Finance.AddEmployee)

		v1.POST("/fulfillment/intake", h.Fulfillment.ProcessIntake)
		v1.POST("/fulfillment/advance", h.Fulfillment.AdvanceStages)
		v1.POST("/fulfillment/restock", h.Fulfillment.RunRestock)
		v1.POST("/fulfillment/payroll", h.Fulfillment.RunPayroll)
		v1.POST("/fulfillment/reconcile", h.Fulfillment.Reconcile)
	}
	return router
}

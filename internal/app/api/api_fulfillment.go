package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

// FulfillmentAPI wires HTTP transport with the fulfillment orchestrator.
// Every route accepts an "at" query parameter carrying the simulated time.
type FulfillmentAPI struct {
	service ports.Service
}

func NewFulfillmentAPI(service ports.Service) FulfillmentAPI {
	return FulfillmentAPI{service: service}
}

type intakeResultResponse struct {
	OrderID    int64               `json:"order_id"`
	Outcome    string              `json:"outcome"`
	Cost       float64             `json:"cost,omitempty"`
	Shortfalls []shortfallResponse `json:"shortfalls,omitempty"`
	FailedStep string              `json:"failed_step,omitempty"`
	Error      string              `json:"error,omitempty"`
}

type intakeReportResponse struct {
	RunID     string                 `json:"run_id"`
	At        time.Time              `json:"at"`
	Processed int                    `json:"processed"`
	Skipped   int                    `json:"skipped"`
	Failed    int                    `json:"failed"`
	Results   []intakeResultResponse `json:"results"`
}

// Post /v1/fulfillment/intake?at=...
// Run the intake sequence over every received order
func (api *FulfillmentAPI) ProcessIntake(c *gin.Context) {
	at, ok := parseAt(c)
	if !ok {
		return
	}
	report, err := api.service.ProcessIntake(c.Request.Context(), at)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toIntakeReportResponse(report))
}

type advanceResultResponse struct {
	OrderID          int64   `json:"order_id"`
	Outcome          string  `json:"outcome"`
	Stage            string  `json:"stage,omitempty"`
	RemainingSeconds float64 `json:"remaining_seconds,omitempty"`
	Payment          float64 `json:"payment,omitempty"`
	FailedStep       string  `json:"failed_step,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type advanceReportResponse struct {
	RunID    string                  `json:"run_id"`
	At       time.Time               `json:"at"`
	Advanced int                     `json:"advanced"`
	Shipped  int                     `json:"shipped"`
	Failed   int                     `json:"failed"`
	Results  []advanceResultResponse `json:"results"`
}

// Post /v1/fulfillment/advance?at=...
// Probe every processing order's pipeline once
func (api *FulfillmentAPI) AdvanceStages(c *gin.Context) {
	at, ok := parseAt(c)
	if !ok {
		return
	}
	report, err := api.service.AdvanceStages(c.Request.Context(), at)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	response := advanceReportResponse{
		RunID:    report.RunID,
		At:       report.At,
		Advanced: report.Advanced,
		Shipped:  report.Shipped,
		Failed:   report.Failed,
		Results:  make([]advanceResultResponse, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		item := advanceResultResponse{
			OrderID:          result.OrderID,
			Outcome:          string(result.Outcome),
			Stage:            string(result.Stage),
			RemainingSeconds: result.Remaining.Seconds(),
			Payment:          result.Payment,
			FailedStep:       string(result.FailedStep),
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		response.Results = append(response.Results, item)
	}
	c.JSON(http.StatusOK, response)
}

type restockActionResponse struct {
	Part            string  `json:"part"`
	QuantityOrdered int     `json:"quantity_ordered"`
	NewQuantity     int     `json:"new_quantity"`
	Cost            float64 `json:"cost"`
}

type restockReportResponse struct {
	RunID     string                  `json:"run_id"`
	Date      time.Time               `json:"date"`
	TotalCost float64                 `json:"total_cost"`
	Actions   []restockActionResponse `json:"actions"`
}

// Post /v1/fulfillment/restock?at=...
// Replenish low parts and book the purchases
func (api *FulfillmentAPI) RunRestock(c *gin.Context) {
	at, ok := parseAt(c)
	if !ok {
		return
	}
	report, err := api.service.RunRestock(c.Request.Context(), at)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	response := restockReportResponse{
		RunID:     report.RunID,
		Date:      report.Date,
		TotalCost: report.TotalCost,
		Actions:   make([]restockActionResponse, 0, len(report.Actions)),
	}
	for _, action := range report.Actions {
		response.Actions = append(response.Actions, restockActionResponse(action))
	}
	c.JSON(http.StatusOK, response)
}

type payrollReportResponse struct {
	RunID     string    `json:"run_id"`
	Date      time.Time `json:"date"`
	Ran       bool      `json:"ran"`
	Paid      int       `json:"paid"`
	TotalPaid float64   `json:"total_paid"`
	Failed    int       `json:"failed"`
}

// Post /v1/fulfillment/payroll?at=...
// Book weekly salaries when the date is a Friday
func (api *FulfillmentAPI) RunPayroll(c *gin.Context) {
	at, ok := parseAt(c)
	if !ok {
		return
	}
	report, err := api.service.RunPayroll(c.Request.Context(), at)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, payrollReportResponse{
		RunID:     report.RunID,
		Date:      report.Date,
		Ran:       report.Ran,
		Paid:      report.Paid,
		TotalPaid: report.TotalPaid,
		Failed:    report.Failed,
	})
}

type reconcileActionResponse struct {
	OrderID int64  `json:"order_id"`
	Action  string `json:"action"`
}

type reconcileReportResponse struct {
	RunID   string                    `json:"run_id"`
	At      time.Time                 `json:"at"`
	Actions []reconcileActionResponse `json:"actions"`
}

// Post /v1/fulfillment/reconcile?at=...
// Heal cross-store inconsistencies left by crashes between commits
func (api *FulfillmentAPI) Reconcile(c *gin.Context) {
	at, ok := parseAt(c)
	if !ok {
		return
	}
	report, err := api.service.Reconcile(c.Request.Context(), at)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	response := reconcileReportResponse{
		RunID:   report.RunID,
		At:      report.At,
		Actions: make([]reconcileActionResponse, 0, len(report.Actions)),
	}
	for _, action := range report.Actions {
		response.Actions = append(response.Actions, reconcileActionResponse(action))
	}
	c.JSON(http.StatusOK, response)
}

func toIntakeReportResponse(report ports.IntakeReport) intakeReportResponse {
	response := intakeReportResponse{
		RunID:     report.RunID,
		At:        report.At,
		Processed: report.Processed,
		Skipped:   report.Skipped,
		Failed:    report.Failed,
		Results:   make([]intakeResultResponse, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		item := intakeResultResponse{
			OrderID:    result.OrderID,
			Outcome:    string(result.Outcome),
			Cost:       result.Cost,
			FailedStep: string(result.FailedStep),
		}
		for _, shortfall := range result.Shortfalls {
			item.Shortfalls = append(item.Shortfalls, shortfallResponse(shortfall))
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		response.Results = append(response.Results, item)
	}
	return response
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
)

// FinanceAPI wires HTTP transport with the financial store ledger.
type FinanceAPI struct {
	ledger *financeapp.Ledger
}

func NewFinanceAPI(ledger *financeapp.Ledger) FinanceAPI {
	return FinanceAPI{ledger: ledger}
}

type transactionResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	RelatedID   *int64    `json:"related_id,omitempty"`
}

// Get /v1/finance/transactions
// List the transaction log, oldest first
func (api *FinanceAPI) ListTransactions(c *gin.Context) {
	transactions, err := api.ledger.ListTransactions(c.Request.Context())
	if err != nil {
		respondFinanceServiceError(c, err)
		return
	}
	responses := make([]transactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, toTransactionResponse(transaction))
	}
	c.JSON(http.StatusOK, responses)
}

type summaryResponse struct {
	Totals  map[string]float64 `json:"totals"`
	Counts  map[string]int     `json:"counts"`
	Balance float64            `json:"balance"`
}

// Get /v1/finance/summary
// Fold the transaction log into totals per type and an overall balance
func (api *FinanceAPI) Summarize(c *gin.Context) {
	summary, err := api.ledger.Summarize(c.Request.Context())
	if err != nil {
		respondFinanceServiceError(c, err)
		return
	}
	response := summaryResponse{
		Totals:  make(map[string]float64, len(summary.Totals)),
		Counts:  make(map[string]int, len(summary.Counts)),
		Balance: summary.Balance,
	}
	for transactionType, total := range summary.Totals {
		response.Totals[string(transactionType)] = total
	}
	for transactionType, count := range summary.Counts {
		response.Counts[string(transactionType)] = count
	}
	c.JSON(http.StatusOK, response)
}

type employeeResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	WeeklySalary float64 `json:"weekly_salary"`
}

// Get /v1/finance/employees
// List the payroll roster
func (api *FinanceAPI) ListEmployees(c *gin.Context) {
	employees, err := api.ledger.ListEmployees(c.Request.Context())
	if err != nil {
		respondFinanceServiceError(c, err)
		return
	}
	responses := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, employeeResponse{
			ID:           employee.ID,
			Name:         employee.Name,
			Title:        employee.Title,
			WeeklySalary: employee.WeeklySalary,
		})
	}
	c.JSON(http.StatusOK, responses)
}

type addEmployeeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	WeeklySalary float64 `json:"weekly_salary" binding:"required"`
}

// Post /v1/finance/employees
// Add an employee to the payroll roster
func (api *FinanceAPI) AddEmployee(c *gin.Context) {
	var payload addEmployeeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	employee, err := api.ledger.AddEmployee(c.Request.Context(), &financedomain.Employee{
		Name:         payload.Name,
		Title:        payload.Title,
		WeeklySalary: payload.WeeklySalary,
	})
	if err != nil {
		respondFinanceServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employeeResponse{
		ID:           employee.ID,
		Name:         employee.Name,
		Title:        employee.Title,
		WeeklySalary: employee.WeeklySalary,
	})
}

func toTransactionResponse(transaction *financedomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          transaction.ID,
		Type:        string(transaction.Type),
		Amount:      transaction.Amount,
		Date:        transaction.Date,
		Description: transaction.Description,
		RelatedID:   transaction.RelatedID,
	}
}

func respondFinanceServiceError(c *gin.Context, err error) {
	if errors.Is(err, financeapp.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondError(c, http.StatusInternalServerError, err)
}

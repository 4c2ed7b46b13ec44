package api

import (
	"fmt"
	"strings"
	"time"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/money"
	"cashly/service"

	"github.com/gin-gonic/gin"
)

// AdviceGenerator turns a spending summary into advice copy.
// Satisfied by service.AdviceClient.
type AdviceGenerator interface {
	Generate(prompt string) (string, error)
}

// AdviceHandler generates and lists spending advice.
type AdviceHandler struct {
	generator AdviceGenerator
}

// NewAdviceHandler creates the advice handler.
func NewAdviceHandler(generator AdviceGenerator) *AdviceHandler {
	return &AdviceHandler{generator: generator}
}

// GenerateAdviceRequest selects the period to analyze. Defaults to the
// last 30 days.
type GenerateAdviceRequest struct {
	StartDate string `json:"start_date" example:"2026-08-01"`
	EndDate   string `json:"end_date" example:"2026-08-31"`
}

// Generate summarizes the period's transactions, asks the text
// provider for advice, and stores the result.
// @Summary Generate spending advice
// @Tags advice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateAdviceRequest false "period"
// @Success 200 {object} Response{data=models.AdviceHistory} "ok"
// @Failure 400 {object} Response "invalid period or no data"
// @Failure 401 {object} Response "unauthorized"
// @Failure 502 {object} Response "provider unavailable"
// @Router /api/v1/advice [post]
func (h *AdviceHandler) Generate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req GenerateAdviceRequest
	_ = c.ShouldBindJSON(&req)

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if req.StartDate != "" {
		t, err := time.ParseInLocation(service.DateLayout, req.StartDate, time.Local)
		if err != nil {
			BadRequest(c, "invalid start_date, expected format: 2006-01-02")
			return
		}
		start = t
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation(service.DateLayout, req.EndDate, time.Local)
		if err != nil {
			BadRequest(c, "invalid end_date, expected format: 2006-01-02")
			return
		}
		end = t.Add(24*time.Hour - time.Second)
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if len(transactions) == 0 {
		BadRequest(c, "no transactions in the selected period")
		return
	}

	prompt := buildAdvicePrompt(transactions, start, end)
	content, err := h.generator.Generate(prompt)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "advice provider unavailable"))
		return
	}

	history := models.AdviceHistory{
		UserID:    userID,
		StartDate: start.Format(service.DateLayout),
		EndDate:   end.Format(service.DateLayout),
		Content:   content,
	}
	if err := database.DB.Create(&history).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "save advice failed"))
		return
	}
	Success(c, history)
}

// buildAdvicePrompt condenses the period into per-category totals so
// the provider sees aggregates, not raw rows.
func buildAdvicePrompt(transactions []models.Transaction, start, end time.Time) string {
	var income, expense float64
	expenseByCategory := make(map[string]float64)
	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			income += abs(tx.Amount)
		case models.TypeExpense:
			expense += abs(tx.Amount)
			name := "Uncategorized"
			if tx.Category != nil {
				name = tx.Category.Name
			}
			expenseByCategory[name] += abs(tx.Amount)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Period %s to %s.\n", start.Format(service.DateLayout), end.Format(service.DateLayout))
	fmt.Fprintf(&b, "Income: %s. Expenses: %s. Net: %s.\n",
		money.FormatCurrency(income), money.FormatCurrency(expense), money.FormatCurrency(income-expense))
	b.WriteString("Spending by category:\n")
	for name, total := range expenseByCategory {
		fmt.Fprintf(&b, "- %s: %s\n", name, money.FormatCurrency(total))
	}
	b.WriteString("Suggest how to improve this budget.")
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// History returns past generated advice, newest first.
// @Summary List advice history
// @Tags advice
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.AdviceHistory} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/advice/history [get]
func (h *AdviceHandler) History(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.AdviceHistory
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(50).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

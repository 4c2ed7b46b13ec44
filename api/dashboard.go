package api

import (
	"strconv"
	"time"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/money"
	"cashly/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler aggregates the month overview.
type DashboardHandler struct{}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// CategorySpend is one category's month spending against its budget.
type CategorySpend struct {
	CategoryID uint     `json:"category_id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	Spent      float64  `json:"spent"`
	Budget     *float64 `json:"budget,omitempty"`
	Percentage float64  `json:"percentage"`
}

// GoalProgress is one goal's completion ratio.
type GoalProgress struct {
	GoalID        uint    `json:"goal_id"`
	Title         string  `json:"title"`
	CurrentAmount float64 `json:"current_amount"`
	TargetAmount  float64 `json:"target_amount"`
	Percentage    float64 `json:"percentage"`
}

// DashboardSummary is the month overview payload.
type DashboardSummary struct {
	Month        string          `json:"month"`
	IncomeTotal  float64         `json:"income_total"`
	ExpenseTotal float64         `json:"expense_total"`
	Net          float64         `json:"net"`
	BalanceTotal float64         `json:"balance_total"`
	Categories   []CategorySpend `json:"categories"`
	Goals        []GoalProgress  `json:"goals"`
}

// Summary returns the month overview: income and expense totals, net,
// account balances, spending per category against budget, and goal
// progress.
// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param month query string false "month (2026-08), defaults to current"
// @Success 200 {object} Response{data=DashboardSummary} "ok"
// @Failure 400 {object} Response "invalid month"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	if m := c.Query("month"); m != "" {
		t, err := time.ParseInLocation("2006-01", m, time.Local)
		if err != nil {
			BadRequest(c, "invalid month, expected format: 2006-01")
			return
		}
		monthStart = t
	}
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	summary := DashboardSummary{
		Month:      monthStart.Format("2006-01"),
		Categories: []CategorySpend{},
		Goals:      []GoalProgress{},
	}

	type totalRow struct {
		Type  string
		Total float64
	}
	var totals []totalRow
	if err := database.DB.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(ABS(amount)), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, monthStart, monthEnd).
		Group("type").Scan(&totals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "aggregate failed"))
		return
	}
	for _, row := range totals {
		switch row.Type {
		case models.TypeIncome:
			summary.IncomeTotal = row.Total
		case models.TypeExpense:
			summary.ExpenseTotal = row.Total
		}
	}
	summary.Net = summary.IncomeTotal - summary.ExpenseTotal

	if err := database.DB.Model(&models.Account{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").Scan(&summary.BalanceTotal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "aggregate failed"))
		return
	}

	var categories []models.Category
	if err := database.DB.Where("user_id = ? AND type = ?", userID, models.TypeExpense).
		Order("name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	type spendRow struct {
		CategoryID uint
		Spent      float64
	}
	var spends []spendRow
	if err := database.DB.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(ABS(amount)), 0) AS spent").
		Where("user_id = ? AND type = ? AND category_id IS NOT NULL AND date >= ? AND date <= ?",
			userID, models.TypeExpense, monthStart, monthEnd).
		Group("category_id").Scan(&spends).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "aggregate failed"))
		return
	}
	spentByCategory := make(map[uint]float64, len(spends))
	for _, row := range spends {
		spentByCategory[row.CategoryID] = row.Spent
	}

	for _, cat := range categories {
		entry := CategorySpend{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Color:      cat.Color,
			Spent:      spentByCategory[cat.ID],
			Budget:     cat.Budget,
		}
		if cat.Budget != nil {
			entry.Percentage = money.Percentage(entry.Spent, *cat.Budget)
		}
		summary.Categories = append(summary.Categories, entry)
	}

	var goals []models.Goal
	if err := database.DB.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Order("deadline ASC NULLS LAST, id ASC").Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	for _, goal := range goals {
		summary.Goals = append(summary.Goals, GoalProgress{
			GoalID:        goal.ID,
			Title:         goal.Title,
			CurrentAmount: goal.CurrentAmount,
			TargetAmount:  goal.TargetAmount,
			Percentage:    money.Percentage(goal.CurrentAmount, goal.TargetAmount),
		})
	}

	Success(c, summary)
}

// UpcomingBills returns recurring bills due within the next days.
// @Summary Upcoming bills
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "look-ahead window in days" default(7)
// @Success 200 {object} Response{data=[]models.RecurringBill} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/dashboard/upcoming [get]
func (h *DashboardHandler) UpcomingBills(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	days := 7
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 && parsed <= 90 {
			days = parsed
		}
	}

	today := service.StartOfDay(time.Now())
	horizon := today.AddDate(0, 0, days)

	var bills []models.RecurringBill
	if err := database.DB.Preload("Account").
		Where("user_id = ? AND active = ? AND next_due_date >= ? AND next_due_date <= ?",
			userID, true, today, horizon).
		Order("next_due_date ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, bills)
}

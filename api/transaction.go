package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/money"
	"cashly/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// TransactionHandler serves transaction CRUD and triggers the
// budget-exceeded notification side channel.
type TransactionHandler struct {
	notifier *service.Notifier
}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler(notifier *service.Notifier) *TransactionHandler {
	return &TransactionHandler{notifier: notifier}
}

// CreateTransactionRequest is the transaction creation payload.
type CreateTransactionRequest struct {
	Title      string  `json:"title" binding:"required,min=1,max=100" example:"Supermarket"`
	CategoryID *uint   `json:"category_id" example:"3"`
	Amount     float64 `json:"amount" binding:"required" example:"42.50"`
	Type       string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Date       string  `json:"date" binding:"required" example:"2026-08-15"`
}

// UpdateTransactionRequest is the transaction update payload.
type UpdateTransactionRequest struct {
	Title      string   `json:"title" binding:"omitempty,min=1,max=100"`
	CategoryID *uint    `json:"category_id"`
	Amount     *float64 `json:"amount"`
	Type       string   `json:"type" binding:"omitempty,oneof=income expense"`
	Date       string   `json:"date"`
}

// TransactionListRequest is the list filter.
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	CategoryID uint   `form:"category_id"`
	Type       string `form:"type" example:"expense"`
	StartDate  string `form:"start_date" example:"2026-08-01"`
	EndDate    string `form:"end_date" example:"2026-08-31"`
}

// Create adds a transaction and checks the category budget.
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction"
// @Success 200 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	date, err := time.ParseInLocation(service.DateLayout, req.Date, time.Local)
	if err != nil {
		BadRequest(c, "invalid date, expected format: 2006-01-02")
		return
	}

	if req.CategoryID != nil {
		var cat models.Category
		if err := database.DB.Where("id = ? AND user_id = ?", *req.CategoryID, userID).First(&cat).Error; err != nil {
			BadRequest(c, "unknown category")
			return
		}
		if cat.Type != req.Type {
			BadRequest(c, "category type does not match transaction type")
			return
		}
	}

	tx := models.Transaction{
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Type:       req.Type,
		Date:       date,
	}
	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create transaction failed"))
		return
	}

	if tx.Type == models.TypeExpense && tx.CategoryID != nil {
		h.checkBudget(userID, *tx.CategoryID, tx.Date)
	}

	database.DB.Preload("Category").First(&tx, tx.ID)
	SuccessWithMessage(c, "created", tx)
}

// checkBudget raises a budget-exceeded notification when the month's
// spending in the category passes its ceiling. Best effort: failures
// only log, the mutation already succeeded.
func (h *TransactionHandler) checkBudget(userID, categoryID uint, date time.Time) {
	var cat models.Category
	if err := database.DB.First(&cat, categoryID).Error; err != nil || cat.Budget == nil {
		return
	}

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	var spent float64
	database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, categoryID, models.TypeExpense, monthStart, monthEnd).
		Select("COALESCE(SUM(ABS(amount)), 0)").Scan(&spent)

	if spent <= *cat.Budget {
		return
	}

	notification := models.Notification{
		UserID:    userID,
		Type:      models.NotificationBudgetExceeded,
		Message:   fmt.Sprintf("Budget exceeded for %s: spent %s of %s", cat.Name, money.FormatCurrency(spent), money.FormatCurrency(*cat.Budget)),
		RelatedID: cat.ID,
	}
	// Deduplicated per (user, type, related) by the store.
	res := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "type"},
			{Name: "related_id"},
		},
		DoNothing: true,
	}).Create(&notification)
	if res.Error != nil || res.RowsAffected == 0 {
		return
	}

	var user models.User
	var settings models.Settings
	if database.DB.First(&user, userID).Error == nil &&
		database.DB.Where("user_id = ?", userID).First(&settings).Error == nil &&
		settings.NotificationsEnabled {
		h.notifier.Dispatch(user.Email, "Cashly: budget exceeded", notification.Message)
	}
}

// List returns the user's transactions, newest first.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param category_id query int false "filter by category"
// @Param type query string false "filter by type (income|expense)"
// @Param start_date query string false "start date (2026-08-01)"
// @Param end_date query string false "end date (2026-08-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid query"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation(service.DateLayout, req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation(service.DateLayout, req.EndDate, time.Local); err == nil {
			// Include the whole end day.
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Category").Order("date DESC").Offset(offset).Limit(req.PageSize).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get returns one transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}
	Success(c, tx)
}

// Update modifies a transaction.
// @Summary Update transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Param request body UpdateTransactionRequest true "fields to update"
// @Success 200 {object} Response{data=models.Transaction} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := database.DB.Where("id = ? AND user_id = ?", *req.CategoryID, userID).First(&cat).Error; err != nil {
			BadRequest(c, "unknown category")
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Date != "" {
		date, err := time.ParseInLocation(service.DateLayout, req.Date, time.Local)
		if err != nil {
			BadRequest(c, "invalid date, expected format: 2006-01-02")
			return
		}
		updates["date"] = date
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.Preload("Category").First(&tx, tx.ID)
	SuccessWithMessage(c, "updated", tx)
}

// Delete removes a transaction.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

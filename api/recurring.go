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

// upcomingWindowDays is how close a due date must be before the
// bill-upcoming notification is raised.
const upcomingWindowDays = 7

// RecurringBillHandler serves recurring-bill CRUD, the advance
// operation and the upcoming-bill notification side channel.
type RecurringBillHandler struct {
	notifier *service.Notifier
}

// NewRecurringBillHandler creates the recurring-bill handler.
func NewRecurringBillHandler(notifier *service.Notifier) *RecurringBillHandler {
	return &RecurringBillHandler{notifier: notifier}
}

// CreateRecurringBillRequest is the recurring-bill creation payload.
type CreateRecurringBillRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=100" example:"Streaming"`
	AccountID   *uint   `json:"account_id" example:"2"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"29.90"`
	Frequency   string  `json:"frequency" binding:"required,oneof=weekly monthly yearly" example:"monthly"`
	NextDueDate string  `json:"next_due_date" binding:"required" example:"2026-09-05"`
	AutoPayment bool    `json:"auto_payment"`
}

// UpdateRecurringBillRequest is the recurring-bill update payload.
type UpdateRecurringBillRequest struct {
	Title       string   `json:"title" binding:"omitempty,min=1,max=100"`
	AccountID   *uint    `json:"account_id"`
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Frequency   string   `json:"frequency" binding:"omitempty,oneof=weekly monthly yearly"`
	NextDueDate string   `json:"next_due_date"`
	Active      *bool    `json:"active"`
	AutoPayment *bool    `json:"auto_payment"`
}

// Create adds a recurring bill.
// @Summary Create recurring bill
// @Tags recurring-bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecurringBillRequest true "bill"
// @Success 200 {object} Response{data=models.RecurringBill} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/recurring-bills [post]
func (h *RecurringBillHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateRecurringBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	dueDate, err := time.ParseInLocation(service.DateLayout, req.NextDueDate, time.Local)
	if err != nil {
		BadRequest(c, "invalid next_due_date, expected format: 2006-01-02")
		return
	}

	if req.AccountID != nil {
		var account models.Account
		if err := database.DB.Where("id = ? AND user_id = ?", *req.AccountID, userID).First(&account).Error; err != nil {
			BadRequest(c, "unknown account")
			return
		}
	}

	bill := models.RecurringBill{
		UserID:      userID,
		AccountID:   req.AccountID,
		Title:       strings.TrimSpace(req.Title),
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		NextDueDate: service.StartOfDay(dueDate),
		Active:      true,
		AutoPayment: req.AutoPayment,
	}
	if err := database.DB.Create(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create recurring bill failed"))
		return
	}

	h.notifyUpcoming(userID, &bill)

	SuccessWithMessage(c, "created", bill)
}

// notifyUpcoming raises a bill-upcoming notification when the due date
// falls within the look-ahead window. Best effort: failures only log,
// the mutation already succeeded.
func (h *RecurringBillHandler) notifyUpcoming(userID uint, bill *models.RecurringBill) {
	today := service.StartOfDay(time.Now())
	due := service.StartOfDay(bill.NextDueDate)
	if due.Before(today) || due.After(today.AddDate(0, 0, upcomingWindowDays)) {
		return
	}

	notification := models.Notification{
		UserID:    userID,
		Type:      models.NotificationBillUpcoming,
		Message:   fmt.Sprintf("Upcoming bill: %s (%s) due %s", bill.Title, money.FormatCurrency(bill.Amount), due.Format(service.DateLayout)),
		RelatedID: bill.ID,
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
		h.notifier.Dispatch(user.Email, "Cashly: upcoming bill", notification.Message)
	}
}

// List returns the user's recurring bills ordered by due date.
// @Summary List recurring bills
// @Tags recurring-bills
// @Produce json
// @Security BearerAuth
// @Param active query bool false "only active bills"
// @Success 200 {object} Response{data=[]models.RecurringBill} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/recurring-bills [get]
func (h *RecurringBillHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var bills []models.RecurringBill
	if err := query.Preload("Account").Order("next_due_date ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, bills)
}

// Update modifies a recurring bill.
// @Summary Update recurring bill
// @Tags recurring-bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "bill id"
// @Param request body UpdateRecurringBillRequest true "fields to update"
// @Success 200 {object} Response{data=models.RecurringBill} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring-bills/{id} [put]
func (h *RecurringBillHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var bill models.RecurringBill
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&bill).Error; err != nil {
		NotFound(c, "recurring bill not found")
		return
	}

	var req UpdateRecurringBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.AccountID != nil {
		var account models.Account
		if err := database.DB.Where("id = ? AND user_id = ?", *req.AccountID, userID).First(&account).Error; err != nil {
			BadRequest(c, "unknown account")
			return
		}
		updates["account_id"] = *req.AccountID
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Frequency != "" {
		updates["frequency"] = req.Frequency
	}
	if req.NextDueDate != "" {
		dueDate, err := time.ParseInLocation(service.DateLayout, req.NextDueDate, time.Local)
		if err != nil {
			BadRequest(c, "invalid next_due_date, expected format: 2006-01-02")
			return
		}
		updates["next_due_date"] = service.StartOfDay(dueDate)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.AutoPayment != nil {
		updates["auto_payment"] = *req.AutoPayment
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&bill).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&bill, bill.ID)

	if _, ok := updates["next_due_date"]; ok && bill.Active {
		h.notifyUpcoming(userID, &bill)
	}

	SuccessWithMessage(c, "updated", bill)
}

// Advance moves the bill's due date one frequency step forward. For
// credit-card bills the matching installment is written in the same
// transaction.
// @Summary Advance recurring bill
// @Tags recurring-bills
// @Produce json
// @Security BearerAuth
// @Param id path int true "bill id"
// @Success 200 {object} Response{data=models.RecurringBill} "advanced"
// @Failure 400 {object} Response "inactive bill"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring-bills/{id}/advance [post]
func (h *RecurringBillHandler) Advance(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var bill models.RecurringBill
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&bill).Error; err != nil {
		NotFound(c, "recurring bill not found")
		return
	}
	if !bill.Active {
		BadRequest(c, "bill is inactive")
		return
	}

	if err := service.AdvanceRecurringBill(database.DB, &bill); err != nil {
		InternalError(c, SafeErrorMessage(err, "advance failed"))
		return
	}

	database.DB.First(&bill, bill.ID)

	h.notifyUpcoming(userID, &bill)

	SuccessWithMessage(c, "advanced", bill)
}

// Delete removes a recurring bill.
// @Summary Delete recurring bill
// @Tags recurring-bills
// @Produce json
// @Security BearerAuth
// @Param id path int true "bill id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring-bills/{id} [delete]
func (h *RecurringBillHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var bill models.RecurringBill
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&bill).Error; err != nil {
		NotFound(c, "recurring bill not found")
		return
	}

	if err := database.DB.Delete(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

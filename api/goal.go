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

// GoalHandler serves savings-goal CRUD and contributions.
type GoalHandler struct {
	notifier *service.Notifier
}

// NewGoalHandler creates the goal handler.
func NewGoalHandler(notifier *service.Notifier) *GoalHandler {
	return &GoalHandler{notifier: notifier}
}

// CreateGoalRequest is the goal creation payload.
type CreateGoalRequest struct {
	Title         string  `json:"title" binding:"required,min=1,max=100" example:"Emergency fund"`
	TargetAmount  float64 `json:"target_amount" binding:"required,gt=0" example:"10000.00"`
	CurrentAmount float64 `json:"current_amount" binding:"omitempty,gte=0" example:"2500.00"`
	Deadline      string  `json:"deadline" example:"2027-06-30"`
}

// UpdateGoalRequest is the goal update payload.
type UpdateGoalRequest struct {
	Title         string   `json:"title" binding:"omitempty,min=1,max=100"`
	TargetAmount  *float64 `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	Deadline      string   `json:"deadline"`
	Status        string   `json:"status" binding:"omitempty,oneof=active completed paused"`
}

// ContributeRequest adds to a goal's saved amount.
type ContributeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"150.00"`
}

// Create adds a goal.
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "goal"
// @Success 200 {object} Response{data=models.Goal} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	goal := models.Goal{
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Status:        models.GoalStatusActive,
	}
	if req.Deadline != "" {
		deadline, err := time.ParseInLocation(service.DateLayout, req.Deadline, time.Local)
		if err != nil {
			BadRequest(c, "invalid deadline, expected format: 2006-01-02")
			return
		}
		goal.Deadline = &deadline
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create goal failed"))
		return
	}
	SuccessWithMessage(c, "created", goal)
}

// List returns the user's goals ordered by deadline, closest first.
// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param status query string false "filter by status (active|completed|paused)"
// @Success 200 {object} Response{data=[]models.Goal} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}

	var goals []models.Goal
	if err := query.Order("deadline ASC NULLS LAST, id ASC").Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, goals)
}

// Update modifies a goal.
// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body UpdateGoalRequest true "fields to update"
// @Success 200 {object} Response{data=models.Goal} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.TargetAmount != nil {
		updates["target_amount"] = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		updates["current_amount"] = *req.CurrentAmount
	}
	if req.Deadline != "" {
		deadline, err := time.ParseInLocation(service.DateLayout, req.Deadline, time.Local)
		if err != nil {
			BadRequest(c, "invalid deadline, expected format: 2006-01-02")
			return
		}
		updates["deadline"] = deadline
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&goal, goal.ID)
	SuccessWithMessage(c, "updated", goal)
}

// Contribute adds an amount to the goal; reaching the target marks it
// completed and raises a notification.
// @Summary Contribute to goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body ContributeRequest true "contribution"
// @Success 200 {object} Response{data=models.Goal} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := map[string]interface{}{
		"current_amount": goal.CurrentAmount + req.Amount,
	}
	completed := goal.CurrentAmount+req.Amount >= goal.TargetAmount && goal.Status == models.GoalStatusActive
	if completed {
		updates["status"] = models.GoalStatusCompleted
	}

	if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	if completed {
		h.notifyCompleted(userID, &goal)
	}

	database.DB.First(&goal, goal.ID)
	SuccessWithMessage(c, "contribution recorded", goal)
}

func (h *GoalHandler) notifyCompleted(userID uint, goal *models.Goal) {
	notification := models.Notification{
		UserID:    userID,
		Type:      models.NotificationGoalCompleted,
		Message:   fmt.Sprintf("Goal reached: %s (%s)", goal.Title, money.FormatCurrency(goal.TargetAmount)),
		RelatedID: goal.ID,
	}
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
		h.notifier.Dispatch(user.Email, "Cashly: goal reached", notification.Message)
	}
}

// Delete removes a goal.
// @Summary Delete goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	if err := database.DB.Delete(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

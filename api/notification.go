package api

import (
	"strconv"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves in-app notifications and the email side
// channel endpoint.
type NotificationHandler struct {
	notifier *service.Notifier
}

// NewNotificationHandler creates the notification handler.
func NewNotificationHandler(notifier *service.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List returns the user's notifications, newest first.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "only unread"
// @Success 200 {object} Response{data=[]models.Notification} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var list []models.Notification
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// MarkRead marks one notification read.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "notification id"
// @Success 200 {object} Response "marked"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		NotFound(c, "notification not found")
		return
	}

	if err := database.DB.Model(&notification).Update("read", true).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}
	SuccessWithMessage(c, "marked read", nil)
}

// MarkAllRead marks every unread notification read.
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "marked"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}
	SuccessWithMessage(c, "all marked read", nil)
}

// SendEmailRequest is the direct email dispatch payload.
type SendEmailRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=200"`
	Body    string `json:"body" binding:"required,min=1"`
}

// SendEmail dispatches a notification email to the authenticated
// user's address. Best effort: a provider failure does not surface as
// a request error, matching the side-channel contract.
// @Summary Send notification email
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendEmailRequest true "email content"
// @Success 200 {object} Response "dispatched"
// @Failure 400 {object} Response "invalid payload or notifications disabled"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/notifications/email [post]
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	settings, err := getOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}
	if !settings.NotificationsEnabled {
		BadRequest(c, "notifications are disabled for this account")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	h.notifier.Dispatch(user.Email, req.Subject, req.Body)
	SuccessWithMessage(c, "dispatched", nil)
}

package api

import (
	"cashly/database"
	"cashly/middleware"
	"cashly/models"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves per-user settings.
type SettingsHandler struct{}

// NewSettingsHandler creates the settings handler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// UpdateSettingsRequest is the settings update payload. Billing
// identifiers are written only by the billing flow, never here.
type UpdateSettingsRequest struct {
	Theme                *string `json:"theme" binding:"omitempty,oneof=light dark system"`
	Currency             *string `json:"currency" binding:"omitempty,min=3,max=10"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

// getOrCreateSettings loads the user's settings row, inserting the
// defaults when absent.
func getOrCreateSettings(userID uint) (*models.Settings, error) {
	var settings models.Settings
	if err := database.DB.Where("user_id = ?", userID).First(&settings).Error; err == nil {
		return &settings, nil
	}
	settings = models.DefaultSettings(userID)
	if err := database.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Get returns the user's settings, creating defaults on first read.
// @Summary Get settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Settings} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	settings, err := getOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}
	Success(c, settings)
}

// Update modifies the user's preferences.
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "fields to update"
// @Success 200 {object} Response{data=models.Settings} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	settings, err := getOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *req.NotificationsEnabled
	}

	if len(updates) > 0 {
		if err := database.DB.Model(settings).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(settings, settings.ID)
	SuccessWithMessage(c, "updated", settings)
}

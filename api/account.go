package api

import (
	"strconv"
	"strings"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves account CRUD.
type AccountHandler struct{}

// NewAccountHandler creates the account handler.
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest is the account creation payload.
type CreateAccountRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100" example:"Nubank"`
	Type        string  `json:"type" binding:"required" example:"bank"`
	Balance     float64 `json:"balance" example:"1500.00"`
	Institution string  `json:"institution" binding:"omitempty,max=100" example:"Nu Pagamentos"`
}

// UpdateAccountRequest is the account update payload.
type UpdateAccountRequest struct {
	Name        string   `json:"name" binding:"omitempty,min=1,max=100"`
	Type        string   `json:"type"`
	Balance     *float64 `json:"balance"`
	Institution *string  `json:"institution" binding:"omitempty,max=100"`
}

// Create adds an account.
// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "account"
// @Success 200 {object} Response{data=models.Account} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}
	if !models.ValidAccountType(req.Type) {
		BadRequest(c, "invalid account type")
		return
	}

	account := models.Account{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Balance:     req.Balance,
		Institution: req.Institution,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create account failed"))
		return
	}

	SuccessWithMessage(c, "created", account)
}

// List returns the user's accounts ordered by name.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Account} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var accounts []models.Account
	if err := database.DB.Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, accounts)
}

// Get returns one account.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response{data=models.Account} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}
	Success(c, account)
}

// Update modifies an account.
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Param request body UpdateAccountRequest true "fields to update"
// @Success 200 {object} Response{data=models.Account} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Type != "" {
		if !models.ValidAccountType(req.Type) {
			BadRequest(c, "invalid account type")
			return
		}
		updates["type"] = req.Type
	}
	if req.Balance != nil {
		updates["balance"] = *req.Balance
	}
	if req.Institution != nil {
		updates["institution"] = *req.Institution
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&account).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&account, account.ID)
	SuccessWithMessage(c, "updated", account)
}

// Delete removes an account.
// @Summary Delete account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

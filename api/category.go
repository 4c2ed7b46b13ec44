package api

import (
	"strconv"
	"strings"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category CRUD.
type CategoryHandler struct{}

// NewCategoryHandler creates the category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest is the category creation payload.
type CreateCategoryRequest struct {
	Name   string   `json:"name" binding:"required,min=1,max=50" example:"Groceries"`
	Type   string   `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Icon   string   `json:"icon" binding:"omitempty,max=50" example:"shopping-cart"`
	Color  string   `json:"color" binding:"omitempty,max=20" example:"#ef4444"`
	Budget *float64 `json:"budget" binding:"omitempty,gt=0" example:"800.00"`
}

// UpdateCategoryRequest is the category update payload.
type UpdateCategoryRequest struct {
	Name   string   `json:"name" binding:"omitempty,min=1,max=50"`
	Icon   *string  `json:"icon" binding:"omitempty,max=50"`
	Color  *string  `json:"color" binding:"omitempty,max=20"`
	Budget *float64 `json:"budget"`
}

// Create adds a category. Name is unique per user; the store enforces
// it with a composite index, the pre-check only produces a friendlier
// message.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "category"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid payload or name taken"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}

	var existing models.Category
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "category name already exists")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b"
	}
	cat := models.Category{
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
		Icon:   req.Icon,
		Color:  color,
		Budget: req.Budget,
	}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create category failed"))
		return
	}
	SuccessWithMessage(c, "created", cat)
}

// List returns the user's categories ordered by name.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "filter by type (income|expense)"
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var list []models.Category
	if err := query.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// Update modifies a category.
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body UpdateCategoryRequest true "fields to update"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 400 {object} Response "invalid payload or name taken"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		var existing models.Category
		if err := database.DB.Where("user_id = ? AND name = ? AND id <> ?", userID, name, cat.ID).
			First(&existing).Error; err == nil {
			BadRequest(c, "category name already exists")
			return
		}
		updates["name"] = name
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&cat, cat.ID)
	SuccessWithMessage(c, "updated", cat)
}

// Delete removes a category. Its transactions keep a dangling nil
// category reference.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	if err := database.DB.Delete(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

package api

import (
	"strconv"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"

	"github.com/gin-gonic/gin"
)

// CreditCardHandler serves credit-card installment listing and payment
// marking.
type CreditCardHandler struct{}

// NewCreditCardHandler creates the credit-card handler.
func NewCreditCardHandler() *CreditCardHandler {
	return &CreditCardHandler{}
}

// ListPayments returns installments, optionally scoped to one card
// account or to unpaid rows only.
// @Summary List credit-card payments
// @Tags credit-cards
// @Produce json
// @Security BearerAuth
// @Param account_id query int false "filter by card account"
// @Param unpaid query bool false "only unpaid installments"
// @Success 200 {object} Response{data=[]models.CreditCardPayment} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/credit-cards/payments [get]
func (h *CreditCardHandler) ListPayments(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if a := c.Query("account_id"); a != "" {
		accountID, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			BadRequest(c, "invalid account_id")
			return
		}
		query = query.Where("account_id = ?", accountID)
	}
	if c.Query("unpaid") == "true" {
		query = query.Where("paid = ?", false)
	}

	var payments []models.CreditCardPayment
	if err := query.Preload("Account").Order("due_date ASC, id ASC").Find(&payments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, payments)
}

// MarkPaid flags one installment as settled.
// @Summary Mark installment paid
// @Tags credit-cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "payment id"
// @Success 200 {object} Response{data=models.CreditCardPayment} "marked"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/credit-cards/payments/{id}/pay [post]
func (h *CreditCardHandler) MarkPaid(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var payment models.CreditCardPayment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
		NotFound(c, "payment not found")
		return
	}

	if err := database.DB.Model(&payment).Update("paid", true).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.First(&payment, payment.ID)
	SuccessWithMessage(c, "marked paid", payment)
}

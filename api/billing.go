package api

import (
	"strconv"

	"cashly/database"
	"cashly/middleware"
	"cashly/service"

	"github.com/gin-gonic/gin"
)

// BillingProvider is the subscription-provider surface the handlers
// use. Satisfied by service.BillingClient.
type BillingProvider interface {
	GetCheckoutSession(sessionID string) (*service.CheckoutSession, error)
	CancelAtPeriodEnd(subscriptionID string) (*service.Subscription, error)
}

// BillingHandler confirms and cancels pro subscriptions.
type BillingHandler struct {
	provider BillingProvider
}

// NewBillingHandler creates the billing handler.
func NewBillingHandler(provider BillingProvider) *BillingHandler {
	return &BillingHandler{provider: provider}
}

// ConfirmBillingRequest carries the checkout session to verify.
type ConfirmBillingRequest struct {
	SessionID string `json:"session_id" binding:"required" example:"cs_test_a1b2c3"`
}

// Confirm verifies a completed checkout session with the provider and
// upgrades the user. An unpaid session is rejected without touching
// settings.
// @Summary Confirm subscription checkout
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmBillingRequest true "checkout session"
// @Success 200 {object} Response{data=models.Settings} "upgraded"
// @Failure 400 {object} Response "session not paid or user mismatch"
// @Failure 401 {object} Response "unauthorized"
// @Failure 502 {object} Response "provider unavailable"
// @Router /api/v1/billing/confirm [post]
func (h *BillingHandler) Confirm(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ConfirmBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	session, err := h.provider.GetCheckoutSession(req.SessionID)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "billing provider unavailable"))
		return
	}

	if session.PaymentStatus != "paid" {
		BadRequest(c, "checkout session is not paid")
		return
	}
	uid, ok := session.Metadata["user_id"]
	if !ok {
		BadRequest(c, "checkout session carries no user reference")
		return
	}
	if parsed, err := strconv.ParseUint(uid, 10, 32); err != nil || uint(parsed) != userID {
		BadRequest(c, "checkout session belongs to another user")
		return
	}

	settings, err := getOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}

	updates := map[string]interface{}{
		"billing_customer_id":     session.Customer,
		"billing_subscription_id": session.Subscription,
		"is_pro":                  true,
	}
	if err := database.DB.Model(settings).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update settings failed"))
		return
	}

	database.DB.First(settings, settings.ID)
	SuccessWithMessage(c, "subscription active", settings)
}

// Cancel asks the provider to end the stored subscription at the
// period boundary. Access stays pro until the period ends, so is_pro
// is left untouched here.
// @Summary Cancel subscription
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Settings} "cancellation scheduled"
// @Failure 400 {object} Response "no active subscription"
// @Failure 401 {object} Response "unauthorized"
// @Failure 502 {object} Response "provider unavailable"
// @Router /api/v1/billing/cancel [post]
func (h *BillingHandler) Cancel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	settings, err := getOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}
	if settings.BillingSubscriptionID == "" {
		BadRequest(c, "no active subscription")
		return
	}

	sub, err := h.provider.CancelAtPeriodEnd(settings.BillingSubscriptionID)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "billing provider unavailable"))
		return
	}
	if !sub.CancelAtPeriodEnd {
		BadGateway(c, "billing provider did not schedule cancellation")
		return
	}

	// The provider may rotate identifiers during cancellation, so the
	// returned subscription is the source of truth for the linkage.
	updates := map[string]interface{}{
		"billing_customer_id":     sub.Customer,
		"billing_subscription_id": sub.ID,
	}
	if err := database.DB.Model(settings).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update settings failed"))
		return
	}

	database.DB.First(settings, settings.ID)
	SuccessWithMessage(c, "cancellation scheduled", settings)
}

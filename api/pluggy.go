package api

import (
	"cashly/middleware"

	"github.com/gin-gonic/gin"
)

// ConnectTokenProvider mints bank-aggregation connect tokens.
// Satisfied by service.PluggyClient.
type ConnectTokenProvider interface {
	CreateConnectToken(itemID string) (string, error)
}

// PluggyHandler serves bank-aggregation connect tokens.
type PluggyHandler struct {
	provider ConnectTokenProvider
}

// NewPluggyHandler creates the aggregation handler.
func NewPluggyHandler(provider ConnectTokenProvider) *PluggyHandler {
	return &PluggyHandler{provider: provider}
}

// ConnectTokenRequest optionally scopes the token to a linked item.
type ConnectTokenRequest struct {
	ItemID string `json:"item_id" example:"item-uuid"`
}

// ConnectTokenResponse carries the short-lived token for the widget.
type ConnectTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ConnectToken mints a connect token for the account-linking widget.
// The token is short lived and never stored.
// @Summary Create aggregation connect token
// @Tags pluggy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConnectTokenRequest false "optional item scope"
// @Success 200 {object} Response{data=ConnectTokenResponse} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 502 {object} Response "provider unavailable"
// @Router /api/v1/pluggy/connect-token [post]
func (h *PluggyHandler) ConnectToken(c *gin.Context) {
	_ = middleware.GetCurrentUserID(c)

	var req ConnectTokenRequest
	_ = c.ShouldBindJSON(&req)

	token, err := h.provider.CreateConnectToken(req.ItemID)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "aggregation provider unavailable"))
		return
	}
	Success(c, ConnectTokenResponse{AccessToken: token})
}

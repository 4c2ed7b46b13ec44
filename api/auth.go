package api

import (
	"net/http"
	"time"

	"cashly/config"
	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration, login and account management.
type AuthHandler struct {
	cfg      *config.Config
	notifier *service.Notifier
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(cfg *config.Config, notifier *service.Notifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, notifier: notifier}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"maria"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"maria@example.com"`
}

// LoginRequest is the login payload (username or email).
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"maria"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse carries the token and the user.
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register creates an account with default settings and categories.
// @Summary Register
// @Description Create a new account. The user gets a settings row and a starter category set.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 200 {object} Response{data=models.User} "created"
// @Failure 400 {object} Response "invalid payload or username taken"
// @Failure 500 {object} Response "server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "username already taken")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
		Status:   models.UserStatusActive,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create user failed"))
		return
	}

	h.seedDefaults(user.ID)

	SuccessWithMessage(c, "registered", user)
}

// seedDefaults creates the settings row and starter categories for a
// new user. Failures are logged by GORM and do not fail registration;
// the settings row is also created lazily on first read.
func (h *AuthHandler) seedDefaults(userID uint) {
	settings := models.DefaultSettings(userID)
	_ = database.DB.Create(&settings).Error

	var cats []models.Category
	for _, seed := range models.DefaultCategories() {
		cats = append(cats, models.Category{
			UserID: userID,
			Name:   seed.Name,
			Type:   seed.Type,
			Icon:   seed.Icon,
			Color:  seed.Color,
		})
	}
	_ = database.DB.Create(&cats).Error
}

// Login authenticates with username or email plus password.
// @Summary Login
// @Description Authenticate and receive a JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=LoginResponse} "authenticated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "bad credentials"
// @Failure 403 {object} Response "account locked"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "wrong username or password")
		return
	}

	if user.Status != models.UserStatusActive {
		Error(c, http.StatusForbidden, "account locked, contact support")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "wrong username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// OAuthLoginRequest is the authorization-code exchange payload.
type OAuthLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// OAuthLogin signs in via the configured identity provider.
// @Summary OAuth login
// @Description Exchange an authorization code at the identity provider and sign in, creating the account on first login.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OAuthLoginRequest true "authorization code"
// @Success 200 {object} Response{data=LoginResponse} "authenticated"
// @Failure 400 {object} Response "invalid payload or oauth disabled"
// @Failure 502 {object} Response "identity provider failure"
// @Router /api/v1/auth/oauth/login [post]
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	if !h.cfg.OAuth.Enabled {
		BadRequest(c, "oauth login is not enabled")
		return
	}

	var req OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	tokenData, err := service.ExchangeOAuthCode(&h.cfg.OAuth, req.Code)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "identity provider failure"))
		return
	}
	info, err := service.GetOAuthUserInfo(&h.cfg.OAuth, tokenData.AccessToken)
	if err != nil {
		BadGateway(c, SafeErrorMessage(err, "identity provider failure"))
		return
	}

	var user models.User
	err = database.DB.Where("o_auth_subject = ?", info.Subject).First(&user).Error
	if err != nil {
		// First login: create the account from the provider profile.
		username := info.Email
		if username == "" {
			username = "user-" + info.Subject
		}
		subject := info.Subject
		user = models.User{
			Username:     username,
			Password:     "-", // no password login for oauth accounts
			Email:        info.Email,
			Status:       models.UserStatusActive,
			OAuthSubject: &subject,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "create user failed"))
			return
		}
		h.seedDefaults(user.ID)
	}

	if user.Status != models.UserStatusActive {
		Error(c, http.StatusForbidden, "account locked, contact support")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}
	Success(c, LoginResponse{Token: token, UserInfo: user})
}

// GetProfile returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// ChangePassword updates the authenticated user's password.
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "passwords"
// @Success 200 {object} Response "changed"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "wrong old password"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "wrong old password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	SuccessWithMessage(c, "password changed", nil)
}

// RequestPasswordResetRequest names the account to reset.
type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset emails a reset code.
// @Summary Request password reset
// @Description Send a 6-digit reset code to the account email. Responds 200 regardless of whether the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestPasswordResetRequest true "account email"
// @Success 200 {object} Response "code sent if the account exists"
// @Failure 400 {object} Response "invalid payload"
// @Router /api/v1/auth/password/request-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Do not reveal whether the address is registered.
		SuccessWithMessage(c, "if the account exists, a code was sent", nil)
		return
	}

	code, err := models.GenerateResetCode()
	if err != nil {
		InternalError(c, "code generation failed")
		return
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := database.DB.Create(&reset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create reset failed"))
		return
	}

	h.notifier.Dispatch(user.Email, "Cashly password reset",
		"Your password reset code is "+code+". It expires in 10 minutes.")

	SuccessWithMessage(c, "if the account exists, a code was sent", nil)
}

// VerifyResetCodeRequest carries the emailed code to check.
type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyResetCode checks a reset code without consuming it, so the
// client can validate the code before asking for the new password.
// @Summary Verify password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyResetCodeRequest true "email and code"
// @Success 200 {object} Response "code valid"
// @Failure 400 {object} Response "invalid or expired code"
// @Router /api/v1/auth/password/verify-code [post]
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		BadRequest(c, "invalid or expired code")
		return
	}

	var reset models.PasswordReset
	if err := database.DB.Where("user_id = ? AND code = ?", user.ID, req.Code).
		Order("created_at DESC").First(&reset).Error; err != nil {
		BadRequest(c, "invalid or expired code")
		return
	}
	if !reset.IsValid() {
		BadRequest(c, "invalid or expired code")
		return
	}

	SuccessWithMessage(c, "code valid", nil)
}

// ResetPasswordRequest carries the emailed code and the new password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// ResetPassword sets a new password with a valid reset code.
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "code and new password"
// @Success 200 {object} Response "password reset"
// @Failure 400 {object} Response "invalid or expired code"
// @Router /api/v1/auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		BadRequest(c, "invalid or expired code")
		return
	}

	var reset models.PasswordReset
	if err := database.DB.Where("user_id = ? AND code = ?", user.ID, req.Code).
		Order("created_at DESC").First(&reset).Error; err != nil {
		BadRequest(c, "invalid or expired code")
		return
	}
	if !reset.IsValid() {
		BadRequest(c, "invalid or expired code")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}
	_ = database.DB.Model(&reset).Update("used", true).Error

	SuccessWithMessage(c, "password reset", nil)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/dto"
	"github.com/gestio-app/gestio/internal/model"
	"github.com/gestio-app/gestio/internal/service"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gin-gonic/gin"
)

// User-facing copy of the auth flows.
const (
	msgRegistered    = "Compte créé. Un email de confirmation a été envoyé."
	msgEmailVerified = "Email vérifié avec succès"
	msgResetMailSent = "Un email de réinitialisation a été envoyé."
	msgPasswordReset = "Mot de passe réinitialisé avec succès"
)

type AuthHandler struct {
	auth     *service.AuthService
	throttle *service.ThrottleService
}

func NewAuthHandler(auth *service.AuthService, throttle *service.ThrottleService) *AuthHandler {
	return &AuthHandler{auth: auth, throttle: throttle}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	if err := h.throttle.Allow(ctx, req.Email, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	// The created record is not echoed back; a bare acknowledgement avoids
	// leaking account details.
	if _, err := h.auth.Register(ctx, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"response":                     true,
		constants.ResponseFieldMessage: msgRegistered,
	})
}

// Login handles POST /auth/login. A stateful session is opened alongside
// the bearer token when the client sends X-Create-Session: true.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	if err := h.throttle.Allow(ctx, req.Email, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	createSession := false
	if v := c.GetHeader(constants.HeaderCreateSession); v != "" {
		createSession, _ = strconv.ParseBool(v)
	}

	resp, err := h.auth.Login(ctx, req, c.GetHeader(constants.HeaderUserAgent), createSession)
	if err != nil {
		respondError(c, err)
		return
	}

	h.throttle.Reset(ctx, req.Email)
	c.JSON(http.StatusOK, resp)
}

// VerifyEmail handles GET /auth/verify-email/:token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VerifyEmail")

	if err := h.auth.VerifyEmail(ctx, c.Param("token")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(msgEmailVerified))
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ForgotPassword")

	if err := h.throttle.Allow(ctx, req.Email, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	if err := h.auth.ForgotPassword(ctx, req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(msgResetMailSent))
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ResetPassword")

	if err := h.auth.ResetPassword(ctx, req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(msgPasswordReset))
}

// Me handles GET /auth/me, behind the session guard. The guard already
// resolved and renewed the session; this just shapes the response.
func (h *AuthHandler) Me(c *gin.Context) {
	value, exists := c.Get(constants.GinKeyAuthUser)
	if !exists {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	user, ok := value.(*model.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, ""))
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

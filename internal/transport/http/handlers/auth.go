package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/middleware"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// AuthHandler exposes registration, login, and password reset endpoints.
type AuthHandler struct {
	auth  *usecase.AuthService
	isDev bool
}

// NewAuthHandler constructs AuthHandler. Development mode echoes reset tokens
// in responses instead of delivering them out of band.
func NewAuthHandler(auth *usecase.AuthService, isDev bool) *AuthHandler {
	return &AuthHandler{auth: auth, isDev: isDev}
}

// RegisterRoutes binds the public authentication routes. Rate limit
// middlewares run ahead of the signup, credential, and reset endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, registerMiddlewares, loginMiddlewares, resetMiddlewares []gin.HandlerFunc) {
	r.POST("/register", chain(registerMiddlewares, h.register)...)
	r.POST("/login", chain(loginMiddlewares, h.login)...)
	r.POST("/admin/login", chain(loginMiddlewares, h.adminLogin)...)

	r.POST("/password/reset/request", chain(resetMiddlewares, h.requestPasswordReset)...)
	r.GET("/password/reset/validate", h.validateResetToken)
	r.POST("/password/reset/confirm", h.confirmPasswordReset)
}

func chain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := append([]gin.HandlerFunc{}, middlewares...)
	return append(out, handler)
}

// register creates a member account and signs the caller in.
func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err,
			ErrorCase{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		)
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

// login authenticates a member and issues an access token.
func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

// adminLogin authenticates an admin, opens a device session, and issues a
// token bound to it.
func (h *AuthHandler) adminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.AdminLogin(c.Request.Context(), req.Email, req.Password, sessionMeta(c, req.Device))
	if err != nil {
		RespondWithMappedError(c, err,
			ErrorCase{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "admin access required"},
		)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

// AdminSession confirms the presented admin bearer is still valid. The admin
// middleware already re-read the stored role, so reaching this handler means
// the caller is a live, unbanned admin.
func (h *AuthHandler) AdminSession(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AdminSessionStatusResponse{
		Active:    true,
		UserID:    userID,
		SessionID: middleware.GetSessionID(c),
	})
}

// requestPasswordReset issues a single-use reset token. The response is the
// same whether or not the email is registered.
func (h *AuthHandler) requestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	token, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email, sessionMeta(c, ""))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	resp := PasswordResetIssuedResponse{
		Message: "if the email is registered, reset instructions have been sent",
	}
	if h.isDev && token != "" {
		resp.ResetToken = token
	}

	c.JSON(http.StatusAccepted, resp)
}

// validateResetToken checks whether a raw reset token can still be redeemed.
func (h *AuthHandler) validateResetToken(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))

	if err := h.auth.ValidateResetToken(c.Request.Context(), token); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "token is valid"})
}

// confirmPasswordReset redeems the token and replaces the password.
func (h *AuthHandler) confirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

func newAuthResponse(result usecase.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		SessionID:   result.SessionID,
		User:        NewUserView(result.User),
	}
}

func sessionMeta(c *gin.Context, device string) usecase.SessionMeta {
	meta := usecase.SessionMeta{}

	if ip := c.ClientIP(); ip != "" {
		meta.IP = &ip
	}
	if ua := c.Request.UserAgent(); ua != "" {
		meta.UserAgent = &ua
	}
	if device = strings.TrimSpace(device); device != "" {
		meta.Device = &device
	}

	return meta
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/security"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

const (
	// RoleKey is the context key for the token's role claim.
	RoleKey = "role"
	// SessionIDKey is the context key for the admin session id claim.
	SessionIDKey = "session_id"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and extracts token claims.
func RequireAuth(tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrExpiredToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "access token expired"))
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid access token"))
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Set(SessionIDKey, claims.SessionID)
		c.Set("claims", claims)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.UserID
		}

		c.Next()
	}
}

// RequireAdmin gates admin routes. The role claim is only a hint: the stored
// user is re-read on every admin request, so a demotion or ban takes effect
// immediately even while an old token is still circulating. Any doubt about
// the live role fails closed.
func RequireAdmin(users port.UserRepository, sessions *usecase.AdminSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(RoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		role, ok := roleVal.(domain.Role)
		if !ok || !role.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "admin access required"))
			return
		}

		userID, _ := GetAuthenticatedUserID(c)
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "admin access required"))
			return
		}
		if user.IsBanned() || !user.Role.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "admin access required"))
			return
		}

		if sessions != nil {
			if sid := GetSessionID(c); sid != "" {
				sessions.RecordHeartbeat(sid)
			}
		}

		c.Next()
	}
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}

// GetSessionID retrieves the admin session id claim, if any.
func GetSessionID(c *gin.Context) string {
	if sid, exists := c.Get(SessionIDKey); exists {
		if id, ok := sid.(string); ok {
			return id
		}
	}
	return ""
}

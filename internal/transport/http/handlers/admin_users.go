package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// AdminUserHandler exposes the admin user management endpoints.
type AdminUserHandler struct {
	moderation *usecase.ModerationService
}

// NewAdminUserHandler constructs AdminUserHandler.
func NewAdminUserHandler(moderation *usecase.ModerationService) *AdminUserHandler {
	return &AdminUserHandler{moderation: moderation}
}

// RegisterRoutes binds the admin user routes. The admin middleware is applied
// by the caller on the enclosing group.
func (h *AdminUserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.PATCH("/:id/promote", h.roleAction(h.moderation.Promote))
	r.PATCH("/:id/demote", h.roleAction(h.moderation.Demote))
	r.PATCH("/:id/ban", h.ban)
	r.PATCH("/:id/unban", h.roleAction(h.moderation.Unban))
}

// list returns the admin user listing with role, ban, and search filters.
func (h *AdminUserHandler) list(c *gin.Context) {
	banned, err := queryBool(c, "banned")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "banned must be true or false"))
		return
	}

	limit, offset := pagination(c)
	users, total, err := h.moderation.ListUsers(c.Request.Context(), port.UserFilter{
		Role:   domain.Role(c.Query("role")),
		Banned: banned,
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]UserView, 0, len(users))
	for _, user := range users {
		items = append(items, NewUserView(user))
	}

	c.JSON(http.StatusOK, ListResponse[UserView]{Items: items, Total: total})
}

// ban marks the target account banned with a mandatory reason.
func (h *AdminUserHandler) ban(c *gin.Context) {
	adminID, ok := actorID(c)
	if !ok {
		return
	}

	var req BanPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "ban reason is required"))
		return
	}

	if err := h.moderation.Ban(c.Request.Context(), c.Param("id"), adminID, req.Reason); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user banned"})
}

// roleAction adapts the promote, demote, and unban service calls, which all
// share the (target, admin) shape.
func (h *AdminUserHandler) roleAction(action func(ctx context.Context, targetID, adminID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := actorID(c)
		if !ok {
			return
		}

		if err := action(c.Request.Context(), c.Param("id"), adminID); err != nil {
			RespondWithMappedError(c, err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "user updated"})
	}
}

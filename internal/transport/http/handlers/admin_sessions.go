package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// AdminSessionHandler exposes admin device-session management.
type AdminSessionHandler struct {
	sessions *usecase.AdminSessionService
}

// NewAdminSessionHandler constructs AdminSessionHandler.
func NewAdminSessionHandler(sessions *usecase.AdminSessionService) *AdminSessionHandler {
	return &AdminSessionHandler{sessions: sessions}
}

// RegisterRoutes binds the admin session routes.
func (h *AdminSessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.PATCH("/:id/terminate", h.terminate)
}

// list returns device sessions, optionally narrowed to one admin or to
// active sessions only.
func (h *AdminSessionHandler) list(c *gin.Context) {
	active, err := queryBool(c, "active")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "active must be true or false"))
		return
	}

	limit, offset := pagination(c)
	filter := port.AdminSessionFilter{
		UserID: c.Query("user_id"),
		Limit:  limit,
		Offset: offset,
	}
	if active != nil {
		filter.ActiveOnly = *active
	}

	sessions, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]AdminSessionView, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, NewAdminSessionView(session))
	}

	c.JSON(http.StatusOK, ListResponse[AdminSessionView]{Items: items, Total: len(items)})
}

// terminate force-closes an active session.
func (h *AdminSessionHandler) terminate(c *gin.Context) {
	adminID, ok := actorID(c)
	if !ok {
		return
	}

	var req TerminateSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid terminate payload"))
		return
	}

	if err := h.sessions.Terminate(c.Request.Context(), c.Param("id"), adminID, req.Reason); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "session terminated"})
}

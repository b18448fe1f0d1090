package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// NotificationHandler exposes the owner-scoped inbox endpoints.
type NotificationHandler struct {
	notifications *usecase.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *usecase.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterRoutes binds the authenticated notification routes.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("/:id/read", h.markRead)
	r.POST("/read-all", h.markAllRead)
}

// list returns the caller's notifications with the current unread count.
func (h *NotificationHandler) list(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, offset := pagination(c)

	notifications, err := h.notifications.List(c.Request.Context(), userID, port.NotificationFilter{
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	unread, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]NotificationView, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, NewNotificationView(notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{Items: items, Unread: unread})
}

// markRead flips one notification. Another user's notification id maps to 404.
func (h *NotificationHandler) markRead(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "notification marked read"})
}

// markAllRead flips every unread notification of the caller.
func (h *NotificationHandler) markAllRead(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarkAllReadResponse{Updated: updated})
}

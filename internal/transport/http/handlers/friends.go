package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// FriendHandler exposes the friendship endpoints.
type FriendHandler struct {
	friends *usecase.FriendshipService
}

// NewFriendHandler constructs FriendHandler.
func NewFriendHandler(friends *usecase.FriendshipService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// RegisterRoutes binds the authenticated friendship routes.
func (h *FriendHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.sendRequest)
	r.PUT("/:userID/accept", h.accept)
	r.DELETE("/:userID", h.withdraw)
	r.DELETE("/:userID/unfriend", h.unfriend)
}

// list returns either accepted friends or pending requests, selected by the
// status query parameter.
func (h *FriendHandler) list(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var (
		entries []usecase.Friend
		err     error
	)
	switch c.DefaultQuery("status", "accepted") {
	case "pending":
		entries, err = h.friends.ListPending(c.Request.Context(), userID)
	case "accepted":
		entries, err = h.friends.ListFriends(c.Request.Context(), userID)
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "status must be accepted or pending"))
		return
	}
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]FriendView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, NewFriendView(entry))
	}

	c.JSON(http.StatusOK, ListResponse[FriendView]{Items: items, Total: len(items)})
}

// sendRequest creates a pending friendship aimed at another member.
func (h *FriendHandler) sendRequest(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req FriendRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid friend request payload"))
		return
	}

	friendship, err := h.friends.SendRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, FriendView{
		UserID:   friendship.Other(userID),
		Relation: friendship.RelationFor(userID),
		Since:    friendship.UpdatedAt,
	})
}

// accept promotes a pending request the caller received.
func (h *FriendHandler) accept(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.friends.Accept(c.Request.Context(), userID, c.Param("userID")); err != nil {
		RespondWithMappedError(c, err,
			ErrorCase{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "only the recipient can accept"},
		)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "friend request accepted"})
}

// withdraw removes a pending request; senders cancel, recipients decline.
func (h *FriendHandler) withdraw(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.friends.Withdraw(c.Request.Context(), userID, c.Param("userID")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "friend request withdrawn"})
}

// unfriend removes an accepted friendship.
func (h *FriendHandler) unfriend(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.friends.Unfriend(c.Request.Context(), userID, c.Param("userID")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "unfriended"})
}

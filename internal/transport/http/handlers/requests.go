package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// RequestHandler exposes the teaching-session request endpoints.
type RequestHandler struct {
	requests *usecase.RequestService
}

// NewRequestHandler constructs RequestHandler.
func NewRequestHandler(requests *usecase.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// RegisterRoutes binds the authenticated session-request routes.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.POST("/:id/accept", h.transition(h.requests.Accept))
	r.POST("/:id/reject", h.transition(h.requests.Reject))
	r.POST("/:id/cancel", h.transition(h.requests.Cancel))
	r.POST("/:id/complete", h.transition(h.requests.Complete))
}

// list returns the caller's requests, optionally narrowed by direction and status.
func (h *RequestHandler) list(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	filter := port.RequestFilter{
		Status: domain.RequestStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}

	switch c.Query("direction") {
	case "incoming":
		filter.Incoming = true
	case "outgoing":
		filter.Outgoing = true
	case "":
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "direction must be incoming or outgoing"))
		return
	}

	requests, err := h.requests.List(c.Request.Context(), userID, filter)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]SessionRequestView, 0, len(requests))
	for _, request := range requests {
		items = append(items, NewSessionRequestView(request))
	}

	c.JSON(http.StatusOK, ListResponse[SessionRequestView]{Items: items, Total: len(items)})
}

// create files a new pending request toward another member.
func (h *RequestHandler) create(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req CreateSessionRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid session request payload"))
		return
	}

	request, err := h.requests.Create(c.Request.Context(), usecase.CreateRequestInput{
		FromUser:      userID,
		ToUser:        req.ToUser,
		Skill:         req.Skill,
		Message:       req.Message,
		PreferredDate: req.PreferredDate,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSessionRequestView(*request))
}

// get returns one request, restricted to its participants.
func (h *RequestHandler) get(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.requests.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSessionRequestView(*request))
}

// transition adapts one state-machine move into a handler. Authorization and
// the legal-move check both live in the service.
func (h *RequestHandler) transition(move func(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actorID(c)
		if !ok {
			return
		}

		request, err := move(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			RespondWithMappedError(c, err)
			return
		}

		c.JSON(http.StatusOK, NewSessionRequestView(*request))
	}
}

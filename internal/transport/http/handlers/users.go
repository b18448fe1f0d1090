package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// UserHandler exposes profile and member browsing endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds the authenticated user routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.browse)
	r.GET("/me", h.me)
	r.PATCH("/me", h.updateMe)
	r.GET("/:id", h.publicProfile)
}

// me returns the caller's own account.
func (h *UserHandler) me(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserView(*user))
}

// updateMe applies partial changes to the caller's profile.
func (h *UserHandler) updateMe(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		Name:           req.Name,
		Bio:            req.Bio,
		Location:       req.Location,
		SkillsTaught:   req.SkillsTaught,
		SkillsMastered: req.SkillsMastered,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserView(*user))
}

// publicProfile returns another member's public view with the caller's
// relation to them.
func (h *UserHandler) publicProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	profile, err := h.users.GetPublicProfile(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPublicProfileView(*profile))
}

// browse lists non-banned members matching the search query.
func (h *UserHandler) browse(c *gin.Context) {
	if _, ok := actorID(c); !ok {
		return
	}

	limit, offset := pagination(c)
	profiles, total, err := h.users.Browse(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]PublicProfileView, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, NewPublicProfileView(profile))
	}

	c.JSON(http.StatusOK, ListResponse[PublicProfileView]{Items: items, Total: total})
}

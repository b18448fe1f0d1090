package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// ReportHandler exposes the member-facing report endpoint.
type ReportHandler struct {
	moderation *usecase.ModerationService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(moderation *usecase.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// RegisterRoutes binds the authenticated report routes.
func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.file)
}

// file records a complaint against another member.
func (h *ReportHandler) file(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req FileReportPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid report payload"))
		return
	}

	report, err := h.moderation.FileReport(c.Request.Context(), usecase.FileReportInput{
		ReportedBy:   userID,
		ReportedUser: req.ReportedUser,
		Reason:       domain.ReportReason(req.Reason),
		Description:  req.Description,
		EvidenceURL:  req.EvidenceURL,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReportView(*report))
}

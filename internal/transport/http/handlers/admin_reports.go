package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// AdminReportHandler exposes the moderation queue endpoints.
type AdminReportHandler struct {
	moderation *usecase.ModerationService
}

// NewAdminReportHandler constructs AdminReportHandler.
func NewAdminReportHandler(moderation *usecase.ModerationService) *AdminReportHandler {
	return &AdminReportHandler{moderation: moderation}
}

// RegisterRoutes binds the admin report routes.
func (h *AdminReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("/:id/resolve", h.close(domain.ReportStatusResolved))
	r.POST("/:id/dismiss", h.close(domain.ReportStatusDismissed))
	r.POST("/bulk/:action", h.bulk)
}

// list returns the moderation queue with status and target filters.
func (h *AdminReportHandler) list(c *gin.Context) {
	limit, offset := pagination(c)
	reports, total, err := h.moderation.ListReports(c.Request.Context(), port.ReportFilter{
		Status:       domain.ReportStatus(c.Query("status")),
		ReportedUser: c.Query("reported_user"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	items := make([]ReportView, 0, len(reports))
	for _, report := range reports {
		items = append(items, NewReportView(report))
	}

	c.JSON(http.StatusOK, ListResponse[ReportView]{Items: items, Total: total})
}

// close adapts the single-report resolve and dismiss actions.
func (h *AdminReportHandler) close(outcome domain.ReportStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := actorID(c)
		if !ok {
			return
		}

		var req ResolutionPayload
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid resolution payload"))
			return
		}

		var err error
		if outcome == domain.ReportStatusResolved {
			err = h.moderation.ResolveReport(c.Request.Context(), c.Param("id"), adminID, req.Note)
		} else {
			err = h.moderation.DismissReport(c.Request.Context(), c.Param("id"), adminID, req.Note)
		}
		if err != nil {
			RespondWithMappedError(c, err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "report " + string(outcome)})
	}
}

// bulk applies resolve or dismiss to a batch of reports and reports partial
// success; already-applied successes are never rolled back.
func (h *AdminReportHandler) bulk(c *gin.Context) {
	adminID, ok := actorID(c)
	if !ok {
		return
	}

	var outcome domain.ReportStatus
	switch c.Param("action") {
	case "resolve":
		outcome = domain.ReportStatusResolved
	case "dismiss":
		outcome = domain.ReportStatusDismissed
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "action must be resolve or dismiss"))
		return
	}

	var req BulkReportPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bulk payload"))
		return
	}

	result := h.moderation.BulkCloseReports(c.Request.Context(), req.ReportIDs, adminID, outcome, req.Note)

	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}

	c.JSON(status, NewBulkOutcomeView(result))
}

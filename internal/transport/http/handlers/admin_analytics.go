package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// defaultAnalyticsWindow is the range served when from/to are omitted.
const defaultAnalyticsWindow = 30 * 24 * time.Hour

// AdminAnalyticsHandler exposes the daily snapshot endpoints.
type AdminAnalyticsHandler struct {
	analytics *usecase.AnalyticsService
	now       func() time.Time
}

// NewAdminAnalyticsHandler constructs AdminAnalyticsHandler.
func NewAdminAnalyticsHandler(analytics *usecase.AnalyticsService) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{analytics: analytics, now: time.Now}
}

// RegisterRoutes binds the admin analytics routes.
func (h *AdminAnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.rangeSnapshots)
	r.POST("", h.generate)
}

// rangeSnapshots serves the snapshot series with day-over-day trends, as JSON
// or as a CSV download selected by the format query parameter.
func (h *AdminAnalyticsHandler) rangeSnapshots(c *gin.Context) {
	today := h.now().UTC().Truncate(24 * time.Hour)

	to, err := queryDate(c, "to", today)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "to must be formatted YYYY-MM-DD"))
		return
	}
	from, err := queryDate(c, "from", to.Add(-defaultAnalyticsWindow))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "from must be formatted YYYY-MM-DD"))
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "to precedes from"))
		return
	}

	trends, err := h.analytics.Range(c.Request.Context(), from, to)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		items := make([]SnapshotView, 0, len(trends))
		for _, trend := range trends {
			items = append(items, NewSnapshotView(trend))
		}
		c.JSON(http.StatusOK, ListResponse[SnapshotView]{Items: items, Total: len(items)})
	case "csv":
		h.writeCSV(c, trends)
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "format must be json or csv"))
	}
}

// generate builds or rebuilds the snapshot for one day, defaulting to today.
func (h *AdminAnalyticsHandler) generate(c *gin.Context) {
	day, err := queryDate(c, "date", h.now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "date must be formatted YYYY-MM-DD"))
		return
	}

	if err := h.analytics.GenerateSnapshot(c.Request.Context(), day); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, MessageResponse{
		Message: "snapshot generated for " + day.UTC().Truncate(24*time.Hour).Format(dateLayout),
	})
}

var csvHeader = []string{
	"date", "active_users", "new_users",
	"sessions_created", "sessions_accepted", "sessions_completed",
	"reports_filed", "reports_resolved", "bans_issued",
	"top_skills", "active_users_change", "new_users_change", "sessions_change",
}

func (h *AdminAnalyticsHandler) writeCSV(c *gin.Context, trends []domain.SnapshotTrend) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="analytics.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)

	for _, trend := range trends {
		s := trend.Snapshot
		_ = w.Write([]string{
			s.SnapshotDate.Format(dateLayout),
			strconv.Itoa(s.ActiveUsers),
			strconv.Itoa(s.NewUsers),
			strconv.Itoa(s.SessionsCreated),
			strconv.Itoa(s.SessionsAccepted),
			strconv.Itoa(s.SessionsCompleted),
			strconv.Itoa(s.ReportsFiled),
			strconv.Itoa(s.ReportsResolved),
			strconv.Itoa(s.BansIssued),
			formatSkills(s.TopSkills),
			formatChange(trend.ActiveUsersChange),
			formatChange(trend.NewUsersChange),
			formatChange(trend.SessionsChange),
		})
	}

	w.Flush()
}

func formatSkills(skills []domain.SkillCount) string {
	parts := make([]string, 0, len(skills))
	for _, skill := range skills {
		parts = append(parts, fmt.Sprintf("%s:%d", skill.Skill, skill.Count))
	}
	return strings.Join(parts, ";")
}

func formatChange(change *float64) string {
	if change == nil {
		return ""
	}
	return strconv.FormatFloat(*change, 'f', 2, 64)
}

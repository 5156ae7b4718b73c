package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) dashboardRoutes(group *gin.RouterGroup) {
	group.GET("/summary", h.handleDashboardSummary)
	group.GET("/employee-role-distribution", h.handleRoleDistribution)
	group.GET("/attendance-report", h.handleAttendanceReport)
}

func (h *Handler) handleDashboardSummary(c *gin.Context) {
	summary, err := h.services.Dashboard.Summary(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, summary)
}

func (h *Handler) handleRoleDistribution(c *gin.Context) {
	distribution, err := h.services.Dashboard.RoleDistribution(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, distribution)
}

// Unparsable bounds are passed on as zero so the range error is reported
// in one place.
func (h *Handler) handleAttendanceReport(c *gin.Context) {
	report, err := h.services.Dashboard.AttendanceReport(c.Request.Context(), reportBound(c, "start"), reportBound(c, "end"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}

func reportBound(c *gin.Context, key string) time.Time {
	parsed, err := service.ParseDate(c.Query(key))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

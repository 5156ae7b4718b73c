package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) attendanceRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateAttendance)
	group.GET("", h.handleListAttendance)
	group.GET("/grid", h.handleAttendanceGrid)
	group.GET("/employee/:user_id", h.handleEmployeeMonth)
	group.POST("/backfill", h.handleBackfill)
	group.GET("/:id", h.handleGetAttendance)
	group.PATCH("/:id", h.handleUpdateAttendance)
	group.DELETE("/:id", h.handleDeleteAttendance)
}

type attendanceRequest struct {
	UserID           string   `json:"user_id" binding:"required"`
	ProjectID        *string  `json:"project_id"`
	Date             string   `json:"date" binding:"required"`
	StartTime        *string  `json:"start_time"`
	LunchStart       *string  `json:"lunch_start"`
	LunchEnd         *string  `json:"lunch_end"`
	EndTime          *string  `json:"end_time"`
	Hours            *float64 `json:"hours" binding:"omitempty,gte=0"`
	AttendanceStatus string   `json:"attendance_status" binding:"omitempty,oneof=PRESENT ABSENT"`
	Notes            string   `json:"notes"`
	Address          string   `json:"address"`
}

type updateAttendanceRequest struct {
	ProjectID        *string           `json:"project_id"`
	Date             *string           `json:"date"`
	StartTime        optionalTimestamp `json:"start_time"`
	LunchStart       optionalTimestamp `json:"lunch_start"`
	LunchEnd         optionalTimestamp `json:"lunch_end"`
	EndTime          optionalTimestamp `json:"end_time"`
	Hours            *float64          `json:"hours" binding:"omitempty,gte=0"`
	AttendanceStatus *string           `json:"attendance_status" binding:"omitempty,oneof=PRESENT ABSENT"`
	Notes            *string           `json:"notes"`
	Address          *string           `json:"address"`
}

type backfillRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

func (h *Handler) handleCreateAttendance(c *gin.Context) {
	var req attendanceRequest
	if !bindBody(c, &req) {
		return
	}

	date, err := parseRequiredDate("date", req.Date)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	var times timestamps
	input := service.CreateAttendanceInput{
		UserID:     req.UserID,
		ProjectID:  req.ProjectID,
		Date:       date,
		StartTime:  times.parse("start_time", req.StartTime),
		LunchStart: times.parse("lunch_start", req.LunchStart),
		LunchEnd:   times.parse("lunch_end", req.LunchEnd),
		EndTime:    times.parse("end_time", req.EndTime),
		Hours:      req.Hours,
		Status:     models.AttendanceStatus(req.AttendanceStatus),
		Notes:      req.Notes,
		Address:    req.Address,
	}
	if times.err != nil {
		h.respondWithError(c, times.err)
		return
	}

	attendance, err := h.services.Attendance.Create(c.Request.Context(), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, attendance)
}

func (h *Handler) handleListAttendance(c *gin.Context) {
	date, err := queryOptionalDate(c, "date")
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	rows, meta, err := h.services.Attendance.List(c.Request.Context(), service.AttendanceFilter{
		UserID:     c.Query("user_id"),
		Date:       date,
		Status:     models.AttendanceStatus(c.Query("attendance_status")),
		Search:     c.Query("search"),
		Pagination: pagination(c),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writePage(c, rows, meta)
}

func (h *Handler) handleAttendanceGrid(c *gin.Context) {
	rows, meta, err := h.services.Attendance.Grid(c.Request.Context(), service.GridQuery{
		Year:       queryInt(c, "year"),
		Month:      queryInt(c, "month"),
		Search:     c.Query("search"),
		Pagination: pagination(c),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writePage(c, rows, meta)
}

func (h *Handler) handleEmployeeMonth(c *gin.Context) {
	days, err := h.services.Attendance.EmployeeMonth(c.Request.Context(), c.Param("user_id"), queryInt(c, "year"), queryInt(c, "month"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, days)
}

func (h *Handler) handleBackfill(c *gin.Context) {
	var req backfillRequest
	if !bindBody(c, &req) {
		return
	}

	result, err := h.services.Attendance.BackfillAbsences(c.Request.Context(), service.BackfillInput{
		Year:  req.Year,
		Month: req.Month,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

func (h *Handler) handleGetAttendance(c *gin.Context) {
	attendance, err := h.services.Attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, attendance)
}

func (h *Handler) handleUpdateAttendance(c *gin.Context) {
	var req updateAttendanceRequest
	if !bindBody(c, &req) {
		return
	}

	var times timestamps
	input := service.UpdateAttendanceInput{
		ProjectID:  req.ProjectID,
		StartTime:  times.patch("start_time", req.StartTime),
		LunchStart: times.patch("lunch_start", req.LunchStart),
		LunchEnd:   times.patch("lunch_end", req.LunchEnd),
		EndTime:    times.patch("end_time", req.EndTime),
		Hours:      req.Hours,
		Notes:      req.Notes,
		Address:    req.Address,
	}
	if times.err != nil {
		h.respondWithError(c, times.err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	input.Date = date
	if req.AttendanceStatus != nil {
		status := models.AttendanceStatus(*req.AttendanceStatus)
		input.Status = &status
	}

	attendance, err := h.services.Attendance.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, attendance)
}

func (h *Handler) handleDeleteAttendance(c *gin.Context) {
	if err := h.services.Attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Attendance deleted successfully")
}

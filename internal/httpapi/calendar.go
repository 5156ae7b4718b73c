package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) calendarRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateCalendarEvent)
	group.GET("", h.handleListCalendar)
	group.PATCH("/:id", h.handleUpdateCalendarEvent)
	group.DELETE("/:id", h.handleDeleteCalendarEvent)
}

type calendarEventRequest struct {
	Status      *int   `json:"status"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	AllDay      bool   `json:"all_day"`
	Location    string `json:"location"`
	Organizer   string `json:"organizer"`
	Color       string `json:"color"`
}

type updateCalendarEventRequest struct {
	Status      *int    `json:"status"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventType   *string `json:"event_type"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	AllDay      *bool   `json:"all_day"`
	Location    *string `json:"location"`
	Organizer   *string `json:"organizer"`
	Color       *string `json:"color"`
}

func (h *Handler) handleCreateCalendarEvent(c *gin.Context) {
	var req calendarEventRequest
	if !bindBody(c, &req) {
		return
	}

	start, err := parseRequiredTimestamp("start_date", req.StartDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	end, err := parseRequiredTimestamp("end_date", req.EndDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	event, err := h.services.Calendar.Create(c.Request.Context(), service.CreateCalendarEventInput{
		Status:      req.Status,
		Title:       req.Title,
		Description: req.Description,
		EventType:   models.CalendarEventType(strings.ToUpper(req.EventType)),
		StartDate:   start,
		EndDate:     end,
		AllDay:      req.AllDay,
		Location:    req.Location,
		Organizer:   req.Organizer,
		Color:       req.Color,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, event)
}

func (h *Handler) handleListCalendar(c *gin.Context) {
	listing, err := h.services.Calendar.List(c.Request.Context(), service.CalendarQuery{
		Year:  queryInt(c, "year"),
		Month: queryInt(c, "month"),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, listing)
}

func (h *Handler) handleUpdateCalendarEvent(c *gin.Context) {
	var req updateCalendarEventRequest
	if !bindBody(c, &req) {
		return
	}

	var times timestamps
	input := service.UpdateCalendarEventInput{
		Status:      req.Status,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   times.parse("start_date", req.StartDate),
		EndDate:     times.parse("end_date", req.EndDate),
		AllDay:      req.AllDay,
		Location:    req.Location,
		Organizer:   req.Organizer,
		Color:       req.Color,
	}
	if times.err != nil {
		h.respondWithError(c, times.err)
		return
	}
	if req.EventType != nil {
		eventType := models.CalendarEventType(strings.ToUpper(*req.EventType))
		input.EventType = &eventType
	}

	event, err := h.services.Calendar.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, event)
}

func (h *Handler) handleDeleteCalendarEvent(c *gin.Context) {
	if err := h.services.Calendar.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Event deleted successfully")
}

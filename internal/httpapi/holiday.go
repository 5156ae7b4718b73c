package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) holidayRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateHoliday)
	group.GET("", h.handleListHolidays)
	group.GET("/:id", h.handleGetHoliday)
	group.PATCH("/:id", h.handleUpdateHoliday)
	group.DELETE("/:id", h.handleDeleteHoliday)
}

type holidayRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
	Status    string `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type updateHolidayRequest struct {
	UserID    *string `json:"user_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`
	Status    *string `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

func (h *Handler) handleCreateHoliday(c *gin.Context) {
	var req holidayRequest
	if !bindBody(c, &req) {
		return
	}

	start, err := parseRequiredDate("start_date", req.StartDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	end, err := parseRequiredDate("end_date", req.EndDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	holiday, err := h.services.Holidays.Create(c.Request.Context(), service.CreateHolidayInput{
		UserID:    req.UserID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    models.HolidayStatus(req.Status),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, holiday)
}

func (h *Handler) handleListHolidays(c *gin.Context) {
	start, err := queryOptionalDate(c, "start_date")
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	end, err := queryOptionalDate(c, "end_date")
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	holidays, meta, err := h.services.Holidays.List(c.Request.Context(), service.HolidayFilter{
		UserID:     c.Query("user_id"),
		StartDate:  start,
		EndDate:    end,
		Pagination: pagination(c),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writePage(c, holidays, meta)
}

func (h *Handler) handleGetHoliday(c *gin.Context) {
	holiday, err := h.services.Holidays.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, holiday)
}

func (h *Handler) handleUpdateHoliday(c *gin.Context) {
	var req updateHolidayRequest
	if !bindBody(c, &req) {
		return
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	input := service.UpdateHolidayInput{
		UserID:    req.UserID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if req.Status != nil {
		status := models.HolidayStatus(*req.Status)
		input.Status = &status
	}

	holiday, err := h.services.Holidays.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, holiday)
}

func (h *Handler) handleDeleteHoliday(c *gin.Context) {
	if err := h.services.Holidays.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Holiday deleted successfully")
}

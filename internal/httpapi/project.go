package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) projectRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateProject)
	group.GET("", h.handleListProjects)
	group.GET("/:id", h.handleGetProject)
	group.PATCH("/:id", h.handleUpdateProject)
	group.DELETE("/:id", h.handleDeleteProject)
}

type createProjectRequest struct {
	Name      string   `json:"name" binding:"required"`
	Address   string   `json:"address"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	Budget    float64  `json:"budget" binding:"gte=0"`
	Cost      float64  `json:"cost" binding:"gte=0"`
	Priority  string   `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status    *int     `json:"status"`
	UserID    *string  `json:"user_id"`
	Assignees []string `json:"assignees"`
}

type updateProjectRequest struct {
	Name      *string   `json:"name"`
	Address   *string   `json:"address"`
	StartDate *string   `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	Budget    *float64  `json:"budget" binding:"omitempty,gte=0"`
	Cost      *float64  `json:"cost" binding:"omitempty,gte=0"`
	Priority  *string   `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status    *int      `json:"status"`
	UserID    *string   `json:"user_id"`
	Assignees *[]string `json:"assignees"`
}

func (h *Handler) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if !bindBody(c, &req) {
		return
	}

	var times timestamps
	input := service.CreateProjectInput{
		Name:      req.Name,
		Address:   req.Address,
		StartDate: times.parse("start_date", req.StartDate),
		EndDate:   times.parse("end_date", req.EndDate),
		Budget:    req.Budget,
		Cost:      req.Cost,
		Priority:  models.ProjectPriority(req.Priority),
		Status:    req.Status,
		UserID:    req.UserID,
		Assignees: req.Assignees,
	}
	if times.err != nil {
		h.respondWithError(c, times.err)
		return
	}

	project, err := h.services.Projects.Create(c.Request.Context(), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, project)
}

func (h *Handler) handleListProjects(c *gin.Context) {
	status, err := queryOptionalInt(c, "status")
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	projects, meta, err := h.services.Projects.List(c.Request.Context(), service.ProjectFilter{
		Search:     c.Query("search"),
		Priority:   models.ProjectPriority(strings.ToUpper(c.Query("priority"))),
		Status:     status,
		Pagination: pagination(c),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writePage(c, projects, meta)
}

func (h *Handler) handleGetProject(c *gin.Context) {
	project, err := h.services.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, project)
}

func (h *Handler) handleUpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if !bindBody(c, &req) {
		return
	}

	var times timestamps
	input := service.UpdateProjectInput{
		Name:      req.Name,
		Address:   req.Address,
		StartDate: times.parse("start_date", req.StartDate),
		EndDate:   times.parse("end_date", req.EndDate),
		Budget:    req.Budget,
		Cost:      req.Cost,
		Status:    req.Status,
		UserID:    req.UserID,
		Assignees: req.Assignees,
	}
	if times.err != nil {
		h.respondWithError(c, times.err)
		return
	}
	if req.Priority != nil {
		priority := models.ProjectPriority(*req.Priority)
		input.Priority = &priority
	}

	project, err := h.services.Projects.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, project)
}

func (h *Handler) handleDeleteProject(c *gin.Context) {
	if err := h.services.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Project deleted successfully")
}

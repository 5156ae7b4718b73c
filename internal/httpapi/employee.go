package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

const avatarField = "file"

func (h *Handler) employeeRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateEmployee)
	group.GET("", h.handleListEmployees)
	group.GET("/:id", h.handleGetEmployee)
	group.PATCH("/:id", h.handleUpdateEmployee)
	group.DELETE("/:id", h.handleDeleteEmployee)
}

// Employee bodies arrive as JSON or as multipart forms carrying an avatar.
type createEmployeeRequest struct {
	Name           string   `json:"name" form:"name"`
	FirstName      string   `json:"first_name" form:"first_name" binding:"required"`
	LastName       string   `json:"last_name" form:"last_name" binding:"required"`
	Email          string   `json:"email" form:"email" binding:"required,email"`
	Password       string   `json:"password" form:"password"`
	PhoneNumber    string   `json:"phone_number" form:"phone_number" binding:"required"`
	PhysicalNumber string   `json:"physical_number" form:"physical_number"`
	EmployeeRole   string   `json:"employee_role" form:"employee_role" binding:"required"`
	HourlyRate     *float64 `json:"hourly_rate" form:"hourly_rate" binding:"required,gte=0"`
	Address        string   `json:"address" form:"address"`
}

type updateEmployeeRequest struct {
	FirstName      *string  `json:"first_name" form:"first_name"`
	LastName       *string  `json:"last_name" form:"last_name"`
	Email          *string  `json:"email" form:"email" binding:"omitempty,email"`
	Password       *string  `json:"password" form:"password"`
	PhoneNumber    *string  `json:"phone_number" form:"phone_number"`
	PhysicalNumber *string  `json:"physical_number" form:"physical_number"`
	EmployeeRole   *string  `json:"employee_role" form:"employee_role"`
	HourlyRate     *float64 `json:"hourly_rate" form:"hourly_rate" binding:"omitempty,gte=0"`
	Address        *string  `json:"address" form:"address"`
}

func (h *Handler) handleCreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if !bindBody(c, &req) {
		return
	}
	avatar, closeAvatar, ok := h.avatarUpload(c)
	if !ok {
		return
	}
	defer closeAvatar()

	employee, err := h.services.Employees.Create(c.Request.Context(), service.CreateEmployeeInput{
		Name:           req.Name,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		PhysicalNumber: req.PhysicalNumber,
		EmployeeRole:   req.EmployeeRole,
		HourlyRate:     *req.HourlyRate,
		Address:        req.Address,
		Avatar:         avatar,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, employee)
}

func (h *Handler) handleListEmployees(c *gin.Context) {
	employees, meta, err := h.services.Employees.List(c.Request.Context(), service.EmployeeFilter{
		EmployeeRole: c.Query("employee_role"),
		Search:       c.Query("search"),
		Pagination:   pagination(c),
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writePage(c, employees, meta)
}

func (h *Handler) handleGetEmployee(c *gin.Context) {
	employee, err := h.services.Employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, employee)
}

func (h *Handler) handleUpdateEmployee(c *gin.Context) {
	var req updateEmployeeRequest
	if !bindBody(c, &req) {
		return
	}
	avatar, closeAvatar, ok := h.avatarUpload(c)
	if !ok {
		return
	}
	defer closeAvatar()

	employee, err := h.services.Employees.Update(c.Request.Context(), c.Param("id"), service.UpdateEmployeeInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		PhysicalNumber: req.PhysicalNumber,
		EmployeeRole:   req.EmployeeRole,
		HourlyRate:     req.HourlyRate,
		Address:        req.Address,
		Avatar:         avatar,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, employee)
}

func (h *Handler) handleDeleteEmployee(c *gin.Context) {
	if err := h.services.Employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Employee deleted successfully")
}

// avatarUpload opens the optional avatar part of a multipart request. The
// returned func closes it.
func (h *Handler) avatarUpload(c *gin.Context) (*service.Upload, func(), bool) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, noop, true
	}

	header, err := c.FormFile(avatarField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, true
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid avatar upload")
		return nil, noop, false
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Printf("open avatar upload: %v", err)
		writeError(c, http.StatusInternalServerError, "internal server error")
		return nil, noop, false
	}
	return &service.Upload{Name: header.Filename, Content: file}, func() { _ = file.Close() }, true
}

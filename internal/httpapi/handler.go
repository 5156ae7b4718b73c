// Package httpapi exposes the service layer over HTTP with gin.
package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

// Services groups the managers the routes delegate to.
type Services struct {
	Attendance    service.AttendanceManager
	Employees     service.EmployeeManager
	Projects      service.ProjectManager
	Calendar      service.CalendarManager
	Holidays      service.HolidayManager
	Loans         service.LoanManager
	Notifications service.NotificationManager
	Dashboard     service.DashboardReader
	Accounts      service.AccountManager
}

// Realtime upgrades a request to a push connection for one user.
type Realtime interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string, admin bool) error
}

type Handler struct {
	services    Services
	tokens      TokenParser
	realtime    Realtime
	storageRoot string
	logger      *log.Logger
}

type Options struct {
	Tokens      TokenParser
	Realtime    Realtime
	StorageRoot string
	Logger      *log.Logger
}

func NewHandler(services Services, opts Options) *Handler {
	useJSONFieldNames()
	return &Handler{
		services:    services,
		tokens:      opts.Tokens,
		realtime:    opts.Realtime,
		storageRoot: opts.StorageRoot,
		logger:      opts.Logger,
	}
}

func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.logger), gin.Recovery())
	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found")
	})

	router.GET("/healthcheck", healthcheck)
	if h.storageRoot != "" {
		router.Static("/storage", h.storageRoot)
	}
	if h.realtime != nil {
		router.GET("/ws", h.handleWebSocket)
	}

	api := router.Group("/api")
	api.POST("/auth/login", h.handleLogin)

	authenticated := api.Group("")
	authenticated.Use(h.authenticate())
	h.loanRoutes(authenticated.Group("/employee-loan"))
	h.notificationRoutes(authenticated.Group("/notifications"))

	admin := api.Group("/admin")
	admin.Use(h.authenticate(), requireAdmin())
	h.attendanceRoutes(admin.Group("/attendance"))
	h.employeeRoutes(admin.Group("/employee"))
	h.projectRoutes(admin.Group("/project"))
	h.calendarRoutes(admin.Group("/academic-calendar"))
	h.holidayRoutes(admin.Group("/employee-holiday"))
	h.dashboardRoutes(admin.Group("/dashboard"))

	users := router.Group("/app/users")
	users.GET("/delete-account", h.handleDeleteAccountPage)
	users.DELETE("/delete-users", h.handleDeleteUser)

	return router
}

func healthcheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

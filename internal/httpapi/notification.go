package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

func (h *Handler) notificationRoutes(group *gin.RouterGroup) {
	group.GET("", h.handleListNotifications)
	group.PATCH("/loan/:id", requireAdmin(), h.handleUpdateLoanStatus)
	group.DELETE("/:id", h.handleDeleteNotification)
	group.DELETE("", h.handleDeleteAllNotifications)
}

type loanStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	Notes  *string `json:"notes"`
}

func (h *Handler) handleListNotifications(c *gin.Context) {
	notifications, err := h.services.Notifications.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, notifications)
}

func (h *Handler) handleUpdateLoanStatus(c *gin.Context) {
	var req loanStatusRequest
	if !bindBody(c, &req) {
		return
	}

	loan, err := h.services.Notifications.UpdateLoanStatus(c.Request.Context(), actorFrom(c), c.Param("id"), models.LoanStatus(req.Status), req.Notes)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Loan status updated successfully", Data: loan})
}

func (h *Handler) handleDeleteNotification(c *gin.Context) {
	if err := h.services.Notifications.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Notification deleted successfully")
}

func (h *Handler) handleDeleteAllNotifications(c *gin.Context) {
	if err := h.services.Notifications.DeleteAll(c.Request.Context(), actorFrom(c)); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "All notifications deleted successfully")
}

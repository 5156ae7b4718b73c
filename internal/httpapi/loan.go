package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

func (h *Handler) loanRoutes(group *gin.RouterGroup) {
	group.POST("", h.handleCreateLoan)
	group.GET("", requireAdmin(), h.handleListLoans)
	group.GET("/user/:user_id", h.handleListUserLoans)
	group.PATCH("/:id", requireAdmin(), h.handleUpdateLoan)
	group.DELETE("/:id", requireAdmin(), h.handleDeleteLoan)
}

type loanRequest struct {
	UserID      string   `json:"user_id"`
	LoanAmount  *float64 `json:"loan_amount" binding:"required,gt=0"`
	LoanPurpose string   `json:"loan_purpose"`
	Notes       string   `json:"notes"`
}

type updateLoanRequest struct {
	LoanAmount  *float64 `json:"loan_amount" binding:"omitempty,gt=0"`
	LoanPurpose *string  `json:"loan_purpose"`
	Notes       *string  `json:"notes"`
	LoanStatus  *string  `json:"loan_status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

func (h *Handler) handleCreateLoan(c *gin.Context) {
	var req loanRequest
	if !bindBody(c, &req) {
		return
	}

	loan, err := h.services.Loans.Create(c.Request.Context(), actorFrom(c), service.CreateLoanInput{
		UserID:  req.UserID,
		Amount:  *req.LoanAmount,
		Purpose: req.LoanPurpose,
		Notes:   req.Notes,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, loan)
}

func (h *Handler) handleListLoans(c *gin.Context) {
	loans, err := h.services.Loans.List(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loans)
}

func (h *Handler) handleListUserLoans(c *gin.Context) {
	loans, err := h.services.Loans.ListForUser(c.Request.Context(), actorFrom(c), c.Param("user_id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loans)
}

func (h *Handler) handleUpdateLoan(c *gin.Context) {
	var req updateLoanRequest
	if !bindBody(c, &req) {
		return
	}

	input := service.UpdateLoanInput{
		Amount:  req.LoanAmount,
		Purpose: req.LoanPurpose,
		Notes:   req.Notes,
	}
	if req.LoanStatus != nil {
		status := models.LoanStatus(*req.LoanStatus)
		input.Status = &status
	}

	loan, err := h.services.Loans.Update(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loan)
}

func (h *Handler) handleDeleteLoan(c *gin.Context) {
	if err := h.services.Loans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Loan deleted successfully")
}

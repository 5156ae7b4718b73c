package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/delete_account.html
var templateFS embed.FS

var deleteAccountPage = template.Must(template.ParseFS(templateFS, "templates/delete_account.html"))

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

type deleteUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin takes an e-mail address or username in identifier; email is
// accepted as an alias.
func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bindBody(c, &req) {
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.services.Accounts.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Logged in successfully", Data: result})
}

func (h *Handler) handleDeleteAccountPage(c *gin.Context) {
	var page bytes.Buffer
	err := deleteAccountPage.Execute(&page, map[string]string{
		"AppName": "Project Management",
		"Action":  "/app/users/delete-users",
	})
	if err != nil {
		h.logger.Printf("render delete account page: %v", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

func (h *Handler) handleDeleteUser(c *gin.Context) {
	var req deleteUserRequest
	if !bindBody(c, &req) {
		return
	}

	if err := h.services.Accounts.DeleteByCredentials(c.Request.Context(), req.Email, req.Password); err != nil {
		h.respondWithError(c, err)
		return
	}
	writeMessage(c, http.StatusOK, "Account deleted successfully")
}

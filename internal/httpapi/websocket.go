package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

// handleWebSocket reads the access token from the token query parameter.
func (h *Handler) handleWebSocket(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("token"))
	if raw == "" {
		writeError(c, http.StatusUnauthorized, "Authorization token required")
		return
	}
	claims, ok := h.parseToken(c, raw)
	if !ok {
		return
	}

	admin := claims.Type == string(models.UserTypeAdmin)
	if err := h.realtime.Serve(c.Writer, c.Request, claims.UserID, admin); err != nil {
		h.logger.Printf("websocket upgrade for user %s: %v", claims.UserID, err)
	}
}

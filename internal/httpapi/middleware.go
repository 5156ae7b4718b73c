package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/auth"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

const (
	userIDKey   = "user_id"
	userTypeKey = "user_type"
)

// TokenParser validates access tokens.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), time.Since(start))
	}
}

func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, ok := h.parseToken(c, raw)
		if !ok {
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userTypeKey, claims.Type)
		c.Next()
	}
}

func (h *Handler) parseToken(c *gin.Context, raw string) (*auth.Claims, bool) {
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			writeError(c, http.StatusUnauthorized, "Token has expired")
		} else {
			writeError(c, http.StatusUnauthorized, "Invalid token")
		}
		return nil, false
	}
	return claims, true
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).Admin {
			writeError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: c.GetString(userIDKey),
		Admin:  c.GetString(userTypeKey) == string(models.UserTypeAdmin),
	}
}

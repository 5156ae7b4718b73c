package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

type envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Meta    *service.Meta `json:"meta,omitempty"`
}

func writeJSON(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func writePage(c *gin.Context, data any, meta service.Meta) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Meta: &meta})
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: true, Message: message})
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		writeError(c, http.StatusBadRequest, err.Error())
	case apperror.CodeNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case apperror.CodeConflict:
		writeError(c, http.StatusConflict, err.Error())
	case apperror.CodeUnauthorized:
		writeError(c, http.StatusUnauthorized, err.Error())
	case apperror.CodeForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	default:
		h.logger.Printf("unexpected error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindBody decodes the request body into target and answers 400 on failure.
func bindBody(c *gin.Context, target any) bool {
	if err := c.ShouldBind(target); err != nil {
		writeError(c, http.StatusBadRequest, bindingMessage(err))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return "invalid request body"
	}

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		name := field.Field()
		switch field.Tag() {
		case "required":
			messages = append(messages, name+" is required")
		case "email":
			messages = append(messages, name+" must be a valid email")
		case "min":
			messages = append(messages, name+" must be at least "+field.Param()+" characters")
		case "gt":
			messages = append(messages, name+" must be greater than "+field.Param())
		case "gte":
			messages = append(messages, name+" must not be negative")
		case "oneof":
			messages = append(messages, name+" must be one of "+field.Param())
		default:
			messages = append(messages, name+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json/form names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
}

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

// fail writes the error envelope. Unclassified errors are logged with a stack
// and, in release mode, answered with a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	e := apperror.From(err)
	log := logger.From(c.Request.Context())
	msg := e.Message
	switch e.Kind {
	case apperror.KindInternal:
		log.Error("request failed",
			slog.String("action", "request_failed"),
			slog.String("error", err.Error()),
			slog.String("stack", logger.Stack()))
		if h.release {
			msg = "Internal server error"
		}
	case apperror.KindUpstream:
		log.Warn("upstream failure", slog.String("action", "upstream_failed"), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), envelope{Success: false, Message: msg, Error: e.Kind.String()})
}

// bind decodes the JSON body into obj and runs its binding rules.
func bind(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperror.Validation(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email")
		case "min", "gte", "gt":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FieldMessage is a per-field validation message
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func respondList(c echo.Context, data interface{}, meta *engine.ListMeta) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       data,
		"pagination": meta,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func respondValidation(c echo.Context, fieldErrors []FieldMessage) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success":   false,
		"message":   "validation failed",
		"errors":    fieldErrors,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// validationError aggregates per-field input failures. It never reaches
// the data layer; binds return it before any store call.
type validationError struct {
	fields []FieldMessage
}

func (e *validationError) Error() string {
	return "validation failed"
}

func newValidationError(fields ...FieldMessage) error {
	return &validationError{fields: fields}
}

func requiredField(field string) FieldMessage {
	return FieldMessage{Field: field, Message: field + " is required"}
}

// respondError normalizes any error and writes the stable error shape.
// Internal causes are only surfaced in development mode.
func respondError(c echo.Context, err error, development bool) error {
	var vErr *validationError
	if errors.As(err, &vErr) {
		return respondValidation(c, vErr.fields)
	}

	norm := engine.Normalize(err)

	message := norm.Message
	if norm.Kind == engine.KindInternal {
		logger.FromEcho(c).Error("Request failed", zap.Error(norm.Err))
		if development && norm.Err != nil {
			message = norm.Err.Error()
		} else {
			message = "internal error"
		}
	}

	body := echo.Map{
		"success":   false,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if norm.Field != "" {
		body["errors"] = []FieldMessage{{Field: norm.Field, Message: norm.Message}}
	}

	return c.JSON(engine.HTTPStatus(norm.Kind), body)
}

func respondUnauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success":   false,
		"message":   "authentication required",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

package apihandlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"selectsense/internal/hint"
	"selectsense/internal/models"
	"selectsense/internal/store"
)

// APIError defines standard error response
// Example: { "error": { "code": "bad_request", "message": "Invalid ID" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func ServiceUnavailable(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusServiceUnavailable, "service_unavailable", msg)
}

func BadGateway(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadGateway, "bad_gateway", msg)
}

func GatewayTimeout(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusGatewayTimeout, "gateway_timeout", msg)
}

// RespondError maps a service error onto the error envelope.
func RespondError(ctx *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, models.ErrValidation):
		BadRequest(ctx, msg)
	case errors.Is(err, models.ErrNotFound), errors.Is(err, store.ErrNotFound), errors.Is(err, hint.ErrSelectionNotFound):
		NotFound(ctx, msg)
	case errors.Is(err, models.ErrProviderDisabled):
		ServiceUnavailable(ctx, msg)
	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(ctx, msg)
	case errors.Is(err, models.ErrProviderFailed):
		BadGateway(ctx, msg)
	default:
		Internal(ctx, msg)
	}
}

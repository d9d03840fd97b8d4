// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"github.com/closespark/vrm-properties-demo-site/platform/validator"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope for this API.
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details interface{}            `json:"details,omitempty"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// ValidationFailed sends a 400 response carrying per-field errors.
func ValidationFailed(c *gin.Context, errs []validator.FieldError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Errors: errs})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

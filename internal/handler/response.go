package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

type Response struct {
	Status     string                `json:"status"`
	Message    string                `json:"message,omitempty"`
	Data       interface{}           `json:"data,omitempty"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewValidationResponse carries the field-level violations back to the form.
func NewValidationResponse(message string, violations []apperrors.Violation) *Response {
	return &Response{
		Status:     "error",
		Message:    message,
		Violations: violations,
	}
}

// ConfirmedDelete reports whether the request carries the explicit
// confirmation that irreversible deletes require. When it is missing the
// validation response is written and the caller must return.
func ConfirmedDelete(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	c.JSON(http.StatusBadRequest, NewValidationResponse("validation failed", []apperrors.Violation{{
		Field:   "confirm",
		Message: "deleting is irreversible; pass confirm=true",
	}}))
	return false
}

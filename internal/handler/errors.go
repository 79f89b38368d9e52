package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/odontocare/clinic-api/internal/form"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

// Error writes err as an HTTP response using the error taxonomy. Validation
// failures keep their field violations; anything unrecognized is a 500.
func Error(c *gin.Context, err error) {
	status, resp := mapError(err)
	c.JSON(status, resp)
}

func mapError(err error) (int, *Response) {
	if errors.Is(err, form.ErrSubmitInFlight) {
		return http.StatusConflict, NewErrorResponse("submission already in progress")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, NewErrorResponse("internal server error")
	}

	switch appErr.Code {
	case apperrors.ErrValidation:
		return http.StatusBadRequest, NewValidationResponse(appErr.Message, appErr.Violations)
	case apperrors.ErrDuplicate:
		return http.StatusConflict, NewErrorResponse(appErr.Message)
	case apperrors.ErrNotFound:
		return http.StatusNotFound, NewErrorResponse(appErr.Message)
	case apperrors.ErrPermission:
		return http.StatusForbidden, NewErrorResponse(appErr.Message)
	case apperrors.ErrBackendUnavailable:
		return http.StatusServiceUnavailable, NewErrorResponse(appErr.Message)
	default:
		return http.StatusInternalServerError, NewErrorResponse("internal server error")
	}
}

package handlers

import (
	"errors"
	"net/http"

	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/lifecycle"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/casestore"
	"loan-case-tracker/internal/service/documents"
	"loan-case-tracker/internal/service/suggestion"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code and writes
// {"error": ...}, adding "fields" for validation failures.
func respondError(c *gin.Context, err error) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var transitionErr *lifecycle.TransitionError
	switch {
	case errors.Is(err, gateway.ErrCaseNotFound),
		errors.Is(err, gateway.ErrConfigItemNotFound),
		errors.Is(err, casestore.ErrValueNotFound):
		return http.StatusNotFound
	case errors.Is(err, casestore.ErrDuplicateValue),
		errors.Is(err, gateway.ErrConfigurationInitialized),
		errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.Is(err, documents.ErrUploadLimitExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, suggestion.ErrInvalidOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

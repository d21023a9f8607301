package handlers

import (
	"errors"
	"net/http"

	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinels onto HTTP statuses. Anything unmapped
// is a storage or collaborator failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, service.ErrConflict):
		utils.ErrorResponse(c, http.StatusConflict, "Conflict", err)
	case errors.Is(err, service.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, service.ErrInvalidState):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid state", err)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountPending),
		errors.Is(err, service.ErrAccountRejected),
		errors.Is(err, service.ErrAccountLocked):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, service.ErrUpstream):
		utils.ErrorResponse(c, http.StatusBadGateway, "Assistant unavailable", err)
	default:
		utils.InternalErrorResponse(c, "Internal server error", err)
	}
}

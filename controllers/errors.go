package controllers

import (
	"errors"
	"net/http"

	"spa-backend/services"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps engine errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// paramID parses the named path parameter as a UUID, responding 400 when it is malformed.
func paramID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

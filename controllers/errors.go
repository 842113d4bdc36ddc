package controllers

import (
	"errors"
	"net/http"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// respondWithServiceError maps service errors onto the JSON envelope. Anything
// unrecognised is logged and reported as a 500 with the generic message.
func respondWithServiceError(c *gin.Context, err error, message string) {
	var posErr *clover.APIError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnavailable), errors.Is(err, clover.ErrNotConfigured):
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Point of sale is unavailable")
	case errors.As(err, &posErr):
		logrus.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"status": posErr.StatusCode,
			"error":  posErr.Message,
		}).Error(message)
		utils.RespondWithError(c, http.StatusBadGateway, message)
	default:
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error(message)
		utils.RespondWithError(c, http.StatusInternalServerError, message)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := utils.CurrentUser(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
	}
	return user, ok
}

func isInvalidInput(err error) bool {
	return errors.Is(err, services.ErrInvalidInput)
}

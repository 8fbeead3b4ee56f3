package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
)

// respondError maps domain sentinel errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrGameNotStarted):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not started"})
	case errors.Is(err, errs.ErrGameNotFound),
		errors.Is(err, errs.ErrTeamNotFound),
		errors.Is(err, errs.ErrUserNotFound),
		errors.Is(err, errs.ErrUnknownTeam):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNoTeamContext):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user without team"})
	case errors.Is(err, errs.ErrOutOfRange), errors.Is(err, errs.ErrBadPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAlreadyStarted),
		errors.Is(err, errs.ErrNameTaken),
		errors.Is(err, errs.ErrDuplicateTeam):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

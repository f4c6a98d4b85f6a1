package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugofmello/startup-pitch/apperr"
	"github.com/hugofmello/startup-pitch/pkg/logger"
)

// writeError is the single place service errors become HTTP responses:
// validation 400, not-found 404, everything else 500. Error bodies are
// always {"error": string}.
func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn(ctx, "request rejected", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	logger.Error(ctx, "request failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

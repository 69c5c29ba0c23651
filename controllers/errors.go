// File: /controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"testbook-api/feed"
)

// respondEngineError maps the engine's failure kinds to HTTP statuses.
// The taxonomy is fixed by the engine; the status codes are ours.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, feed.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid argument"})
	case errors.Is(err, feed.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, feed.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Storage unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

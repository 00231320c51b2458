package api

import (
	"course_catalog/internal/catalog" // Catalog services
	"course_catalog/internal/flash"   // Flash messages
	"errors"                          // Error kind matching
	"net/http"                        // HTTP status codes
	"strconv"                         // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrIntegrity):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// abortWithError writes a JSON error view for a failed read
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": catalog.UserMessage(err)})
}

// toFlash converts a result into its flash message
func toFlash(res catalog.Result) flash.Message {
	return flash.Message{Level: string(res.Level), Text: res.Message}
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt parses an integer query parameter, returning 0 when absent or invalid
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

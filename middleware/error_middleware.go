package middleware

import (
	"errors"
	"log"
	"net/http"

	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler renders the last error a handler attached with c.Error.
// Unclassified errors become 500s whose detail is only shown in development.
func ErrorHandler(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)

		var serviceErr *services.Error
		message := err.Error()
		if status == http.StatusInternalServerError {
			log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			if !devMode {
				message = internalErrorMessage
			}
		} else if errors.As(err, &serviceErr) {
			message = serviceErr.Message
		}

		c.JSON(status, gin.H{"error": message})
	}
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDuplicateIdentity):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

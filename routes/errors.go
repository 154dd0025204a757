package routes

import (
	"errors"

	"feveo/taskmanager/middleware"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// abortWithError hands err to middleware.ErrorHandler, which writes the response.
func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// bindJSON decodes the request body into obj. Decoding failures that are not
// already validation errors are reported as a generic bad request.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if !errors.Is(err, services.ErrValidation) {
			err = services.ValidationError("invalid request body")
		}
		abortWithError(c, err)
		return false
	}
	return true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		abortWithError(c, services.ErrUnauthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

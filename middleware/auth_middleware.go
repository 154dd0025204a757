package middleware

import (
	"errors"
	"net/http"

	"feveo/taskmanager/services"
	"feveo/taskmanager/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "userID"

// AuthMiddleware requires a bearer token. A missing or malformed header is
// answered with 401, a token that fails validation with 403.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		authenticate(c, authService, tokenString)
	}
}

func authenticate(c *gin.Context, authService services.AuthServiceInterface, tokenString string) {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": token.ErrInvalidToken.Error()})
		return
	}

	c.Set(userIDKey, claims.UserID)

	c.Next()
}

// CurrentUserID returns the authenticated user set by the auth middlewares.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("invalid user ID in context")
	}
	return userID, nil
}

package middleware

import (
	"net/http"

	"feveo/taskmanager/services"
	"feveo/taskmanager/utils/token"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware validates JWT tokens for WebSocket connections.
// The token may come from the "token" query parameter or the Authorization header.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		authenticate(c, authService, tokenString)
	}
}

package routes

import (
	"feveo/taskmanager/middleware"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes sets up the event stream endpoint with authentication
func RegisterWebSocketRoutes(group *gin.RouterGroup, authService services.AuthServiceInterface, wsService services.WebSocketServiceInterface) {
	wsGroup := group.Group("/ws")
	wsGroup.Use(middleware.WebSocketAuthMiddleware(authService))
	{
		wsGroup.GET("", func(c *gin.Context) {
			userID, ok := currentUser(c)
			if !ok {
				return
			}
			wsService.HandleConnection(c.Writer, c.Request, userID)
		})
	}
}

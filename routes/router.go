package routes

import (
	"feveo/taskmanager/database"
	"feveo/taskmanager/middleware"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

// Services bundles the handlers' dependencies.
type Services struct {
	Auth      services.AuthServiceInterface
	Users     services.UserServiceInterface
	Tasks     services.TaskServiceInterface
	WebSocket services.WebSocketServiceInterface
}

// SetupRouter builds the engine with every API route registered.
func SetupRouter(db *database.Database, svc Services, allowedOrigins string, devMode bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins))
	router.Use(middleware.ErrorHandler(devMode))

	api := router.Group("/api")
	RegisterAuthRoutes(api, db, svc.Auth, svc.Users)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	RegisterTaskRoutes(protected, db, svc.Tasks)

	if svc.WebSocket != nil {
		RegisterWebSocketRoutes(api, svc.Auth, svc.WebSocket)
	}

	RegisterHealthRoutes(router, db)
	return router
}

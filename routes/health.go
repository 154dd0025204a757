package routes

import (
	"net/http"
	"time"

	"feveo/taskmanager/database"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

func RegisterHealthRoutes(router *gin.Engine, db *database.Database) {
	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if err := db.Ping(); err != nil {
			dbStatus = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "Server is healthy",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Task manager API",
			"version": apiVersion,
			"endpoints": gin.H{
				"auth": []string{
					"POST /api/auth/register",
					"POST /api/auth/login",
					"GET /api/auth/me",
					"PUT /api/auth/me",
					"DELETE /api/auth/me",
				},
				"tasks": []string{
					"GET /api/tasks",
					"POST /api/tasks",
					"GET /api/tasks/:id",
					"PUT /api/tasks/:id",
					"PATCH /api/tasks/:id/complete",
					"DELETE /api/tasks/:id",
					"GET /api/tasks/stats/overview",
				},
				"events": []string{
					"GET /api/ws",
				},
			},
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

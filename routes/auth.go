package routes

import (
	"net/http"

	"feveo/taskmanager/database"
	"feveo/taskmanager/middleware"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterAuthRoutes(group *gin.RouterGroup, db *database.Database, authService services.AuthServiceInterface, userService services.UserServiceInterface) {
	auth := group.Group("/auth")
	{
		auth.POST("/register", func(c *gin.Context) { Register(c, db, userService) })
		auth.POST("/login", func(c *gin.Context) { Login(c, db, authService) })
	}

	me := auth.Group("/me")
	me.Use(middleware.AuthMiddleware(authService))
	{
		me.GET("", func(c *gin.Context) { GetCurrentUser(c, db, userService) })
		me.PUT("", func(c *gin.Context) { UpdateCurrentUser(c, db, userService) })
		me.DELETE("", func(c *gin.Context) { DeleteCurrentUser(c, db, userService) })
	}
}

func Register(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := userService.Register(db, input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "User registered successfully",
		"userId":    user.UserID,
		"username":  user.Username,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	})
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request loginRequest
	if !bindJSON(c, &request) {
		return
	}

	result, err := authService.Login(db, request.Email, request.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in successfully",
		"token":    result.Token,
		"userId":   result.UserID,
		"username": result.Username,
		"email":    result.Email,
	})
}

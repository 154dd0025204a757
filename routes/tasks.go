package routes

import (
	"net/http"

	"feveo/taskmanager/database"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks/stats/overview", func(c *gin.Context) { GetTaskStats(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.PATCH("/tasks/:id/complete", func(c *gin.Context) { CompleteTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var filter services.TaskFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, services.ValidationError("invalid query parameters"))
		return
	}

	tasks, err := taskService.GetTasks(db, userID, filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tasks), "tasks": tasks})
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := taskService.CreateTask(db, userID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := taskService.GetOwnedTask(db, c.Param("id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := taskService.UpdateTask(db, c.Param("id"), userID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func CompleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := taskService.CompleteTask(db, c.Param("id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := taskService.DeleteTask(db, c.Param("id"), userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func GetTaskStats(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := taskService.GetTaskStats(db, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

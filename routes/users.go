package routes

import (
	"net/http"

	"feveo/taskmanager/database"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := userService.GetUserById(db, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateCurrentUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := userService.UpdateUser(db, userID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteCurrentUser removes the account and all of its tasks.
func DeleteCurrentUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := userService.DeleteUser(db, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

package database

import (
	"log"

	"feveo/taskmanager/models"

	"gorm.io/gorm"
)

// RunMigrations creates or updates the users, tasks and events tables.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Event{},
	)

	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	return nil
}

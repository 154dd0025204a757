package services

import (
	"errors"
	"log"
	"time"

	"feveo/taskmanager/broker"
	"feveo/taskmanager/database"
	"feveo/taskmanager/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisteredUser is the public view of a newly registered account.
type RegisteredUser struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PasswordHasher hashes plaintext passwords before they are stored.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type UserServiceInterface interface {
	Register(db *database.Database, input RegisterInput) (RegisteredUser, error)
	GetUserByEmail(db *database.Database, email string) (models.User, error)
	GetUserById(db *database.Database, id uuid.UUID) (models.User, error)
	UpdateUser(db *database.Database, id uuid.UUID, input UpdateUserInput) (models.User, error)
	DeleteUser(db *database.Database, id uuid.UUID) error
}

type UserService struct {
	hasher PasswordHasher
}

func NewUserService(hasher PasswordHasher) *UserService {
	return &UserService{hasher: hasher}
}

func (s *UserService) Register(db *database.Database, input RegisterInput) (RegisteredUser, error) {
	input.normalize()
	if err := validateStruct(&input); err != nil {
		return RegisteredUser{}, err
	}

	passwordHash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return RegisteredUser{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return RegisteredUser{}, tx.Error
	}

	if err := checkIdentityAvailable(tx, input.Username, input.Email, uuid.Nil); err != nil {
		tx.Rollback()
		return RegisteredUser{}, err
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return RegisteredUser{}, translateIdentityError(err)
	}

	if err := recordEvent(tx, broker.UserCreated, "user", "create", user.ID, map[string]interface{}{
		"userId":   user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
	}); err != nil {
		tx.Rollback()
		return RegisteredUser{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return RegisteredUser{}, err
	}

	log.Printf("Registered user %s (%s)", user.ID, user.Username)
	return RegisteredUser{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// GetUserByEmail returns the user including the password hash. It is meant
// for credential checks only.
func (s *UserService) GetUserByEmail(db *database.Database, email string) (models.User, error) {
	return findUserByEmail(db.DB, normalizeEmail(email))
}

func (s *UserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := db.DB.Select(models.PublicColumns).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(db *database.Database, id uuid.UUID, input UpdateUserInput) (models.User, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var user models.User
	if err := tx.Select(models.PublicColumns).First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	input.normalize()
	if err := validateStruct(&input); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	updates := map[string]interface{}{}
	var username, email string
	if input.Username != nil && *input.Username != user.Username {
		username = *input.Username
		updates["username"] = username
	}
	if input.Email != nil && *input.Email != user.Email {
		email = *input.Email
		updates["email"] = email
	}
	if err := checkIdentityAvailable(tx, username, email, user.ID); err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if input.Password != nil {
		passwordHash, err := s.hasher.HashPassword(*input.Password)
		if err != nil {
			tx.Rollback()
			return models.User{}, err
		}
		updates["password_hash"] = passwordHash
	}

	if len(updates) == 0 {
		tx.Rollback()
		return user, nil
	}
	updates["updated_at"] = time.Now()

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.User{}, translateIdentityError(err)
	}

	var updated models.User
	if err := tx.Select(models.PublicColumns).First(&updated, "id = ?", user.ID).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := recordEvent(tx, broker.UserUpdated, "user", "update", updated.ID, map[string]interface{}{
		"userId":   updated.ID.String(),
		"username": updated.Username,
		"email":    updated.Email,
	}); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.User{}, err
	}

	return updated, nil
}

// DeleteUser removes the user together with every task they own.
func (s *UserService) DeleteUser(db *database.Database, id uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var user models.User
	if err := tx.Select(models.PublicColumns).First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Not every dialect enforces the foreign key cascade, so delete tasks explicitly.
	result := tx.Where("user_id = ?", user.ID).Delete(&models.Task{})
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	tasksDeleted := result.RowsAffected

	if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordEvent(tx, broker.UserDeleted, "user", "delete", user.ID, map[string]interface{}{
		"userId":       user.ID.String(),
		"tasksDeleted": tasksDeleted,
	}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	log.Printf("Deleted user %s and %d tasks", user.ID, tasksDeleted)
	return nil
}

func findUserByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// checkIdentityAvailable fails with a DuplicateIdentity error naming the
// colliding field. Empty values are skipped; exclude is the caller's own row.
func checkIdentityAvailable(tx *gorm.DB, username, email string, exclude uuid.UUID) error {
	if email != "" {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, exclude).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
	}
	if username != "" {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", username, exclude).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
	}
	return nil
}

func translateIdentityError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(ErrDuplicateIdentity, "username or email is already in use")
	}
	return err
}

var _ UserServiceInterface = (*UserService)(nil)

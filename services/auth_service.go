package services

import (
	"errors"
	"log"
	"time"

	"feveo/taskmanager/database"
	"feveo/taskmanager/utils/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type AuthServiceInterface interface {
	Login(db *database.Database, email, password string) (LoginResult, error)
	IssueToken(userID uuid.UUID, email string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) bool
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

func (s *AuthService) Login(db *database.Database, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ValidationError("email and password are required")
	}

	user, err := findUserByEmail(db.DB, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.ComparePasswords(user.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	tokenString, err := s.IssueToken(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, err
	}

	log.Printf("User %s logged in", user.ID)
	return LoginResult{
		Token:    tokenString,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// IssueToken signs a token asserting userID, valid for the configured expiration.
func (s *AuthService) IssueToken(userID uuid.UUID, email string) (string, error) {
	return token.GenerateToken(userID, email, s.jwtSecret, s.jwtExpiration)
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// ComparePasswords reports whether password matches hashedPassword.
func (s *AuthService) ComparePasswords(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

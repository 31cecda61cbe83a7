package user

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"prestige-rentals/internal/auth"
	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
)

type DBLayer interface {
	CreateUser(user *models.User) error
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetActiveUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	SoftDeleteUser(id int64) error
	CreateUserDetails(details *models.UserDetails) error
	GetUserDetails(userID int64) (*models.UserDetails, error)
	UpdateUserDetails(details *models.UserDetails) error
}

// UserService owns registration, login and account CRUD. Accounts are
// soft-deleted so their orders stay attributable.
type UserService struct {
	DB     DBLayer
	Tokens *auth.TokenGenerator
	Logger *logger.Logger
}

func NewUserService(db DBLayer, tokens *auth.TokenGenerator, log *logger.Logger) *UserService {
	return &UserService{DB: db, Tokens: tokens, Logger: log}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates the account and its details row, then logs the user
// straight in by returning a token.
func (s *UserService) Register(req models.RegisterRequest) (*models.AuthenticatedResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	if _, err := s.DB.GetUserByEmail(req.Email); err == nil {
		return nil, models.ErrEmailExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashPassword(req.Password),
		Role:     "User",
		Active:   true,
	}
	if err := s.DB.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	details := &models.UserDetails{
		UserID:      user.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Active:      true,
	}
	if err := s.DB.CreateUserDetails(details); err != nil {
		return nil, fmt.Errorf("failed to create user details: %w", err)
	}

	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("registered user %d", user.ID))
	return &models.AuthenticatedResponse{Token: token}, nil
}

func (s *UserService) Login(req models.LoginRequest) (*models.AuthenticatedResponse, error) {
	user, err := s.DB.GetUserByEmail(req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Deleted || !user.Active {
		return nil, models.ErrInvalidCredentials
	}

	hashed := hashPassword(req.Password)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(user.Password)) != 1 {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("user %d logged in", user.ID))
	return &models.AuthenticatedResponse{Token: token}, nil
}

func (s *UserService) GetUser(id int64) (*models.User, error) {
	return s.DB.GetUserByID(id)
}

func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.DB.GetActiveUsers()
}

func (s *UserService) GetDetails(userID int64) (*models.UserDetails, error) {
	return s.DB.GetUserDetails(userID)
}

func (s *UserService) UpdateDetails(details *models.UserDetails) error {
	existing, err := s.DB.GetUserDetails(details.UserID)
	if err != nil {
		return err
	}
	details.ID = existing.ID
	details.Active = existing.Active
	details.Deleted = existing.Deleted
	return s.DB.UpdateUserDetails(details)
}

func (s *UserService) DeleteUser(id int64) error {
	if err := s.DB.SoftDeleteUser(id); err != nil {
		return err
	}
	s.Logger.Info("USER", fmt.Sprintf("soft-deleted user %d", id))
	return nil
}

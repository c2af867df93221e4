package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/Sanuthi50/Supercar-predictor/models"
	"github.com/Sanuthi50/Supercar-predictor/repository"

	"golang.org/x/crypto/bcrypt"
)

// Authentication failures. Unknown usernames and wrong passwords both
// surface as ErrInvalidCredentials so user existence does not leak.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError describes a client input error with a machine-readable code.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// AuthService handles registration, login, and profile lookups.
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterRequest represents a request to register a user
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// validate checks field formats before any database access.
func (req *RegisterRequest) validate() *ValidationError {
	if req.Username == "" {
		return &ValidationError{"MISSING_USERNAME", "Username is required and cannot be empty"}
	}
	if req.Email == "" {
		return &ValidationError{"MISSING_EMAIL", "Email is required and cannot be empty"}
	}
	if req.Password == "" {
		return &ValidationError{"MISSING_PASSWORD", "Password is required and cannot be empty"}
	}
	if len(req.Username) < 3 {
		return &ValidationError{"USERNAME_TOO_SHORT", "Username must be at least 3 characters long"}
	}
	if len(req.Username) > 150 {
		return &ValidationError{"USERNAME_TOO_LONG", "Username cannot exceed 150 characters"}
	}
	if !emailRegex.MatchString(req.Email) {
		return &ValidationError{"INVALID_EMAIL_FORMAT", "Please provide a valid email address"}
	}
	if len(req.Email) > 254 {
		return &ValidationError{"EMAIL_TOO_LONG", "Email address cannot exceed 254 characters"}
	}
	if len(req.Password) < 6 {
		return &ValidationError{"PASSWORD_TOO_SHORT", "Password must be at least 6 characters long"}
	}
	if len(req.Password) > 500 {
		return &ValidationError{"PASSWORD_TOO_LONG", "Password cannot exceed 500 characters"}
	}
	if req.FirstName != nil && len(*req.FirstName) > 100 {
		return &ValidationError{"FIRST_NAME_TOO_LONG", "First name cannot exceed 100 characters"}
	}
	if req.LastName != nil && len(*req.LastName) > 100 {
		return &ValidationError{"LAST_NAME_TOO_LONG", "Last name cannot exceed 100 characters"}
	}
	// Username charset is checked last so other field errors take
	// precedence when several fields are bad.
	if !usernameRegex.MatchString(req.Username) {
		return &ValidationError{"INVALID_USERNAME_FORMAT", "Username can only contain letters, numbers, and underscores"}
	}
	return nil
}

// Register validates the request, checks username and email availability,
// and creates the account. The existence checks are a fast path; the
// insert relies on the table's unique constraints and reports
// repository.ErrDuplicateUsername or repository.ErrDuplicateEmail when
// a concurrent registration wins the race.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if verr := req.validate(); verr != nil {
		return nil, verr
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrDuplicateUsername
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Successfully registered new user: %s", user.Username)
	return user, nil
}

// Login verifies credentials and the active flag, then records the login
// time. A failed last-login update does not fail the login.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{"MISSING_USERNAME", "Username is required and cannot be empty"}
	}
	if password == "" {
		return nil, &ValidationError{"MISSING_PASSWORD", "Password is required and cannot be empty"}
	}
	if len(username) > 150 {
		return nil, &ValidationError{"USERNAME_TOO_LONG", "Username cannot exceed 150 characters"}
	}
	if len(password) > 500 {
		return nil, &ValidationError{"PASSWORD_TOO_LONG", "Password cannot exceed 500 characters"}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("Login attempt with non-existent username: %s", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("Invalid password attempt for user: %s", username)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Printf("Login attempt on disabled account: %s", username)
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("Failed to update last login for user %s: %v", username, err)
	} else {
		user.LastLogin = &now
	}

	log.Printf("Successful login for user: %s", username)
	return user, nil
}

// Profile retrieves the account for an authenticated user id.
func (s *AuthService) Profile(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

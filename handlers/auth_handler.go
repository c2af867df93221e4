package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Sanuthi50/Supercar-predictor/repository"
	"github.com/Sanuthi50/Supercar-predictor/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for registration and sessions
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body cannot be empty")
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_JSON", "Request body contains invalid JSON")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(c, http.StatusBadRequest, verr.Code, verr.Message)
		case errors.Is(err, repository.ErrDuplicateUsername):
			respondError(c, http.StatusConflict, "USERNAME_EXISTS",
				"This username is already taken. Please choose a different username.")
		case errors.Is(err, repository.ErrDuplicateEmail):
			respondError(c, http.StatusConflict, "EMAIL_EXISTS",
				"This email address is already registered. Please use a different email or try logging in.")
		default:
			log.Printf("Registration error: %v", err)
			respondDBError(c, err, "REGISTRATION_FAILED",
				"An unexpected error occurred during registration. Please try again later.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "User registered successfully",
		"user":       user,
		"request_id": requestID(c),
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body cannot be empty")
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_JSON", "Request body contains invalid JSON")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(c, http.StatusBadRequest, verr.Code, verr.Message)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Username or password is incorrect")
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(c, http.StatusForbidden, "ACCOUNT_DISABLED",
				"Your account has been disabled. Please contact support.")
		default:
			log.Printf("Login error: %v", err)
			respondDBError(c, err, "LOGIN_FAILED",
				"An unexpected error occurred. Please try again later.")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		log.Printf("Session creation error for user %s: %v", user.Username, err)
		respondError(c, http.StatusInternalServerError, "SESSION_ERROR",
			"Login successful but session could not be created. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Login successful",
		"user":       user,
		"request_id": requestID(c),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("Logout error: %v", err)
		respondError(c, http.StatusInternalServerError, "LOGOUT_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Logout successful",
		"request_id": requestID(c),
	})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Please login to access your profile")
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), *userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User account not found")
			return
		}
		log.Printf("Profile error: %v", err)
		respondDBError(c, err, "PROFILE_FAILED", "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       user,
		"request_id": requestID(c),
	})
}

// Check handles GET /auth/check
func (h *AuthHandler) Check(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": false,
			"request_id":    requestID(c),
		})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), *userID)
	if err != nil || user == nil || !user.IsActive {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": false,
			"request_id":    requestID(c),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          user,
		"request_id":    requestID(c),
	})
}

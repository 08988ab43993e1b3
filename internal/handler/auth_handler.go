package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

// GoogleLogin initiates the Google OAuth flow
// @Summary Initiate Google OAuth login
// @Description Redirects to Google OAuth consent screen
// @Tags auth
// @Accept json
// @Produce json
// @Success 302 "Redirect to Google OAuth"
// @Router /v1/auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateRandomState()
	if err != nil {
		respondInternalServerError(c, "Failed to generate state")
		return
	}

	// State cookie guards the callback against CSRF
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url := h.authService.GetGoogleOAuthURL(state)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles the Google OAuth callback
// @Summary Handle Google OAuth callback
// @Description Processes Google OAuth callback and returns JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param code query string true "OAuth authorization code"
// @Param state query string true "OAuth state parameter"
// @Success 200 {object} service.AuthResponse "Authentication successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" {
		respondBadRequest(c, "Authorization code is required")
		return
	}

	storedState, err := c.Cookie("oauth_state")
	if err != nil || storedState != state {
		respondBadRequest(c, "Invalid state parameter")
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	authResponse, err := h.authService.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		logError(c, "google_oauth_callback_failed", err, map[string]interface{}{
			"error_type": "oauth_error",
		})
		respondInternalServerError(c, "Failed to authenticate with Google")
		return
	}

	// API clients get JSON; browsers are redirected back to the app
	if c.GetHeader("Accept") == "application/json" || c.Query("response_type") == "json" {
		respondOK(c, authResponse)
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?access_token=%s&refresh_token=%s&expires_in=%d",
		h.frontendURL,
		authResponse.AccessToken,
		authResponse.RefreshToken,
		authResponse.ExpiresIn,
	)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// Register handles user registration with email and password
// @Summary Register a new user
// @Description Create a new user account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} service.AuthResponse "Registration successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 409 {object} model.ErrorResponse "User already exists"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondConflict(c, "User with this email already exists")
			return
		}
		logError(c, "registration_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		respondInternalServerError(c, "Failed to register user")
		return
	}

	respondCreated(c, authResponse)
}

// Login handles user login with email and password
// @Summary Login with email and password
// @Description Authenticate a user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResponse "Login successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Invalid credentials"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondUnauthorized(c, "Invalid email or password")
			return
		}
		logError(c, "login_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		respondInternalServerError(c, "Failed to login")
		return
	}

	respondOK(c, authResponse)
}

// RefreshToken generates a new access token from a refresh token
// @Summary Refresh access token
// @Description Generate a new access token using a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} service.TokenPair "New tokens"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Invalid refresh token"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respondBadRequest(c, "Refresh token is required")
		return
	}

	tokens, err := h.authService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		respondUnauthorized(c, "Invalid or expired refresh token")
		return
	}

	respondOK(c, tokens)
}

// GetCurrentUser returns the current authenticated user
// @Summary Get current user
// @Description Get the currently authenticated user's information
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "User information"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondInternalServerError(c, "Failed to get user information")
		return
	}

	respondOK(c, user)
}

// Logout handles user logout (client-side token removal)
// @Summary Logout
// @Description Logout the current user (client should remove tokens)
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWT: the client drops the tokens, nothing to revoke server-side
	respondOK(c, gin.H{
		"message": "Logout successful",
	})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)

		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)

		auth.GET("/me", authMiddleware, h.GetCurrentUser)
	}
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// generateRandomState generates a random state string for OAuth
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

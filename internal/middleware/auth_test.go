package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

// stubAuthService accepts exactly one token and rejects everything else
type stubAuthService struct {
	validToken string
	claims     *service.Claims
}

func (s *stubAuthService) GetGoogleOAuthURL(state string) string { return "" }

func (s *stubAuthService) HandleGoogleCallback(ctx context.Context, code string) (*service.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Register(ctx context.Context, email, password, name string) (*service.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*service.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GenerateTokens(userID, email string) (*service.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	if tokenString == s.validToken {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *stubAuthService) RefreshAccessToken(refreshToken string) (*service.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	auth := &stubAuthService{
		validToken: "good-token",
		claims:     &service.Claims{UserID: "user-42", Email: "user@example.com"},
	}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

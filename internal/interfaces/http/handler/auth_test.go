package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/infrastructure/auth"
	"github.com/sellerops/backend/internal/interfaces/http/middleware"
)

func authTestRouter(handler *AuthHandler, principal *identity.Principal, claims *auth.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.PrincipalKey, *principal)
		}
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
		}
	})
	router.GET("/auth/me", handler.Me)
	router.POST("/auth/logout", handler.Logout)
	return router
}

func TestAuthHandlerMe(t *testing.T) {
	t.Run("returns the authenticated principal", func(t *testing.T) {
		handler := NewAuthHandler(auth.NewInMemoryTokenBlacklist(), nil)
		principal := identity.Principal{
			UserID:              uuid.New(),
			Username:            "ops.jakarta",
			Role:                identity.RoleManager,
			OperatedCountries:   []string{"ID", "TH"},
			SupervisedCountries: []string{"ID"},
		}

		w := httptest.NewRecorder()
		authTestRouter(handler, &principal, nil).ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ops.jakarta")
		assert.Contains(t, w.Body.String(), principal.UserID.String())
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		handler := NewAuthHandler(auth.NewInMemoryTokenBlacklist(), nil)

		w := httptest.NewRecorder()
		authTestRouter(handler, nil, nil).ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		handler := NewAuthHandler(blacklist, nil)
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			},
		}

		w := httptest.NewRecorder()
		authTestRouter(handler, nil, claims).ServeHTTP(w, httptest.NewRequest("POST", "/auth/logout", nil))

		require.Equal(t, http.StatusNoContent, w.Code)
		revoked, err := blacklist.IsRevoked(context.Background(), claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("rejects requests without claims", func(t *testing.T) {
		handler := NewAuthHandler(auth.NewInMemoryTokenBlacklist(), nil)

		w := httptest.NewRecorder()
		authTestRouter(handler, nil, nil).ServeHTTP(w, httptest.NewRequest("POST", "/auth/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

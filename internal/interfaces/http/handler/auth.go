package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sellerops/backend/internal/infrastructure/auth"
	"github.com/sellerops/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves token introspection and revocation. Tokens are
// minted out of band (see cmd/tokengen); the API only consumes them.
type AuthHandler struct {
	BaseHandler
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{blacklist: blacklist, logger: logger}
}

// PrincipalResponse describes the authenticated caller
type PrincipalResponse struct {
	UserID              string   `json:"user_id"`
	Username            string   `json:"username"`
	Role                string   `json:"role"`
	OperatedCountries   []string `json:"operated_countries"`
	SupervisedCountries []string `json:"supervised_countries"`
	TokenExpiresAt      string   `json:"token_expires_at,omitempty"`
}

// Me returns the principal derived from the presented token.
//
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp := PrincipalResponse{
		UserID:              principal.UserID.String(),
		Username:            principal.Username,
		Role:                principal.Role,
		OperatedCountries:   principal.OperatedCountries,
		SupervisedCountries: principal.SupervisedCountries,
	}
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.ExpiresAt != nil {
		resp.TokenExpiresAt = claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	h.Success(c, resp)
}

// Logout revokes the presented token until its natural expiry. Later
// requests with the same token are rejected by the middleware.
//
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.ID == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		h.logger.Error("failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		h.InternalError(c, "Failed to revoke token")
		return
	}
	h.NoContent(c)
}

package sales

import (
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/identity"
)

// VisibilityScope is the per-request slice of the principal that the
// query builder needs. Recomputed from the authenticated principal on
// every query, never persisted.
type VisibilityScope struct {
	IsAdmin             bool
	UserID              uuid.UUID
	SupervisedCountries []string
}

// ScopeFromPrincipal derives a visibility scope from the principal
func ScopeFromPrincipal(p identity.Principal) VisibilityScope {
	return VisibilityScope{
		IsAdmin:             p.IsAdmin(),
		UserID:              p.UserID,
		SupervisedCountries: p.SupervisedCountries,
	}
}

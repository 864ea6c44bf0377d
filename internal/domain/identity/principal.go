package identity

import (
	"slices"

	"github.com/google/uuid"
)

// Role names recognised by the visibility rules. Anything that is not
// RoleAdmin is treated as a restricted role.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleOperation = "operation"
)

// Principal is the authenticated caller as handed over by the auth
// middleware: a user identity plus the country grants that drive
// row-level visibility. It is derived from JWT claims on every request
// and never persisted.
type Principal struct {
	UserID              uuid.UUID
	Username            string
	Role                string
	OperatedCountries   []string
	SupervisedCountries []string
}

// IsAdmin reports whether the principal has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Supervises reports whether the principal supervises the given country
func (p Principal) Supervises(countryCode string) bool {
	return slices.Contains(p.SupervisedCountries, countryCode)
}

// Operates reports whether the principal operates in the given country
func (p Principal) Operates(countryCode string) bool {
	return slices.Contains(p.OperatedCountries, countryCode)
}

// CanManage reports whether the principal may edit or delete a record
// belonging to the given country and creator. Admins manage everything,
// everyone manages their own records, managers manage their supervised
// countries.
func (p Principal) CanManage(countryCode string, createdBy uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	if createdBy != uuid.Nil && createdBy == p.UserID {
		return true
	}
	return p.Supervises(countryCode)
}

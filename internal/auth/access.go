package auth

import (
	"slices"

	"ctchen222/game-store/internal/api/models"
)

// Identity is the authenticated caller, taken from verified token claims.
type Identity struct {
	Email string
	Role  models.Role
}

// IsAuthorized reports whether role satisfies required. An empty required
// set admits any authenticated identity.
func IsAuthorized(role models.Role, required ...models.Role) bool {
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, role)
}

package engine

import "github.com/smokwena/dispute-backend/internal/models"

// Actor is the identity on whose behalf an operation runs. The engine treats
// it as a given fact and never mutates it.
type Actor struct {
	UserID string
	Roles  []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool { return a.HasRole(models.RoleDisputeAdmin) }

package authz

import "github.com/yukikurage/project-management-api/internal/models"

// Actor is the identity an operation runs on behalf of. The zero value is
// anonymous.
type Actor struct {
	user *models.User
}

func Anonymous() Actor {
	return Actor{}
}

// ForUser returns an authenticated actor, or an anonymous one if user is nil
// or not persisted.
func ForUser(user *models.User) Actor {
	if user == nil || user.ID == 0 {
		return Actor{}
	}
	return Actor{user: user}
}

func (a Actor) IsAuthenticated() bool {
	return a.user != nil
}

// User returns the authenticated user, or nil for an anonymous actor.
func (a Actor) User() *models.User {
	return a.user
}

func (a Actor) UserID() uint64 {
	if a.user == nil {
		return 0
	}
	return a.user.ID
}

// Is reports whether the actor is the authenticated user with the given ID.
func (a Actor) Is(userID uint64) bool {
	return a.user != nil && a.user.ID == userID
}

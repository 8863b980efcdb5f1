package types

import "github.com/google/uuid"

// Actor is the authenticated user an operation is performed for.
type Actor struct {
	UserID uuid.UUID
	// Staff marks platform staff and admins, who may act on matches they
	// did not create.
	Staff bool
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID uuid.UUID) bool {
	return a.UserID != uuid.Nil && a.UserID == userID
}

package matches

import (
	"time"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// CreateInput describes a new match and the users invited to it.
type CreateInput struct {
	Name            string
	Description     string
	GameID          *uuid.UUID
	Visibility      enums.MatchVisibility
	MaxParticipants int
	Reward          int64
	StartsAt        *time.Time
	Invitees        []uuid.UUID
}

// ListParams filters the visible match listing.
type ListParams struct {
	Status *enums.MatchStatus
	GameID *uuid.UUID
	Limit  int
	Cursor string
}

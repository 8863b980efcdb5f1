package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// MembershipView is a membership joined with the match it belongs to.
type MembershipView struct {
	ID            uuid.UUID                   `json:"id"`
	MatchID       uuid.UUID                   `json:"match_id"`
	UserID        uuid.UUID                   `json:"user_id"`
	Status        enums.MatchMembershipStatus `json:"status"`
	Side          int                         `json:"side"`
	InvitedBy     *uuid.UUID                  `json:"invited_by,omitempty"`
	MatchName     string                      `json:"match_name"`
	MatchStatus   enums.MatchStatus           `json:"match_status"`
	MatchStartsAt *time.Time                  `json:"match_starts_at,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

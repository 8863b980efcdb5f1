package payloads

import (
	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// MatchEvent describes a change of match-level state.
type MatchEvent struct {
	MatchID    uuid.UUID         `json:"match_id"`
	Status     enums.MatchStatus `json:"status"`
	Archived   bool              `json:"archived"`
	WinnerSide int               `json:"winner_side,omitempty"`
	Reward     int64             `json:"reward,omitempty"`
}

// MembershipChangedEvent is emitted on every membership status or side change.
type MembershipChangedEvent struct {
	MatchID      uuid.UUID                   `json:"match_id"`
	MembershipID uuid.UUID                   `json:"membership_id"`
	UserID       uuid.UUID                   `json:"user_id"`
	Action       string                      `json:"action"`
	Status       enums.MatchMembershipStatus `json:"status"`
	Side         int                         `json:"side"`
}

// RankingSettledEvent is emitted per winner when a match completes.
type RankingSettledEvent struct {
	MatchID   uuid.UUID       `json:"match_id"`
	UserID    uuid.UUID       `json:"user_id"`
	GameID    uuid.UUID       `json:"game_id"`
	Points    int64           `json:"points"`
	Score     int64           `json:"score"`
	RankTier  enums.RankTier  `json:"rank_tier"`
	LevelTier enums.LevelTier `json:"level_tier"`
}

// TeamMembershipEvent is emitted on team membership transitions.
type TeamMembershipEvent struct {
	TeamID       uuid.UUID                  `json:"team_id"`
	MembershipID uuid.UUID                  `json:"membership_id"`
	UserID       uuid.UUID                  `json:"user_id"`
	Action       string                     `json:"action"`
	Status       enums.TeamMembershipStatus `json:"status"`
}

// MessagePostedEvent carries a new chat message to the discussion room.
type MessagePostedEvent struct {
	DiscussionID uuid.UUID         `json:"discussion_id"`
	MessageID    uuid.UUID         `json:"message_id"`
	SenderID     *uuid.UUID        `json:"sender_id,omitempty"`
	Content      string            `json:"content"`
	Type         enums.MessageType `json:"message_type"`
	ReplyingToID *uuid.UUID        `json:"replying_to_id,omitempty"`
}

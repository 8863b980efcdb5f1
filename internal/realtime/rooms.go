package realtime

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/internal/teams"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/types"
)

// Room kinds.
const (
	RoomMatch      = "match"
	RoomDiscussion = "discussion"
	RoomTeam       = "team"
)

// Room is a parsed "<kind>:<id>" room name.
type Room struct {
	Kind string
	ID   uuid.UUID
}

func (r Room) String() string {
	return r.Kind + ":" + r.ID.String()
}

// ParseRoom validates a room name.
func ParseRoom(value string) (Room, error) {
	kind, rawID, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return Room{}, pkgerrors.New(pkgerrors.CodeBadRequest, "room must look like <kind>:<id>")
	}
	if kind != RoomMatch && kind != RoomDiscussion && kind != RoomTeam {
		return Room{}, pkgerrors.New(pkgerrors.CodeBadRequest, "unknown room kind")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Room{}, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid room id")
	}
	return Room{Kind: kind, ID: id}, nil
}

// MatchRoom names the room carrying a match's events.
func MatchRoom(matchID uuid.UUID) string {
	return Room{Kind: RoomMatch, ID: matchID}.String()
}

// DiscussionRoom names the room carrying a discussion's messages.
func DiscussionRoom(discussionID uuid.UUID) string {
	return Room{Kind: RoomDiscussion, ID: discussionID}.String()
}

// MatchViewer resolves a match the actor may see.
type MatchViewer interface {
	Get(ctx context.Context, matchID uuid.UUID, viewer types.Actor) (*models.Match, error)
}

// DiscussionAccess checks read access to a discussion.
type DiscussionAccess interface {
	CanAccess(ctx context.Context, actor types.Actor, discussionID uuid.UUID) error
}

// TeamReader loads a team with its roster.
type TeamReader interface {
	Get(ctx context.Context, teamID uuid.UUID) (*teams.Detail, error)
}

// RoomAuthorizer admits an actor to a room when they can read what it
// streams.
type RoomAuthorizer struct {
	Matches     MatchViewer
	Discussions DiscussionAccess
	Teams       TeamReader
}

// Authorize returns nil when actor may join room.
func (a RoomAuthorizer) Authorize(ctx context.Context, actor types.Actor, room Room) error {
	switch room.Kind {
	case RoomMatch:
		if a.Matches == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		_, err := a.Matches.Get(ctx, room.ID, actor)
		return err
	case RoomDiscussion:
		if a.Discussions == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return a.Discussions.CanAccess(ctx, actor, room.ID)
	case RoomTeam:
		if a.Teams == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		detail, err := a.Teams.Get(ctx, room.ID)
		if err != nil {
			return err
		}
		if actor.Staff {
			return nil
		}
		for _, m := range detail.Members {
			if m.UserID == actor.UserID && isActiveTeamStatus(m.Status) {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
	default:
		return pkgerrors.New(pkgerrors.CodeBadRequest, "unknown room kind")
	}
}

func isActiveTeamStatus(status enums.TeamMembershipStatus) bool {
	switch status {
	case enums.TeamMembershipMember, enums.TeamMembershipAdmin, enums.TeamMembershipWinner:
		return true
	}
	return false
}

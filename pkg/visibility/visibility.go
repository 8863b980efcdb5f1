package visibility

import (
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/types"
)

// MatchVisibilityInput drives the shared visibility checks for match reads.
type MatchVisibilityInput struct {
	Match  *models.Match
	Viewer types.Actor
	// Membership is the viewer's membership on the match, if any.
	Membership *models.MatchMembership
}

// EnsureMatchVisible hides private and archived matches from outsiders. Hidden
// matches report NotFound so their existence does not leak.
func EnsureMatchVisible(input MatchVisibilityInput) error {
	if input.Match == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
	}
	if input.Viewer.Staff || input.Match.IsCreator(input.Viewer.UserID) {
		return nil
	}
	if input.Match.Archived {
		return pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
	}
	if member := input.Membership; member != nil && member.UserID == input.Viewer.UserID {
		if member.Status != enums.MatchMembershipBanned {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
	}
	if input.Match.Visibility.IsListed() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
}

// ListedVisibilities returns the visibilities that appear in public listings.
func ListedVisibilities() []enums.MatchVisibility {
	return []enums.MatchVisibility{
		enums.MatchVisibilityPublic,
		enums.MatchVisibilityPublicTeam,
		enums.MatchVisibilityCompetition,
	}
}

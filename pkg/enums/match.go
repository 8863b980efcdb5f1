package enums

import "fmt"

// MatchStatus captures the lifecycle of a match.
type MatchStatus string

const (
	MatchStatusUpcoming   MatchStatus = "upcoming"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

var validMatchStatuses = []MatchStatus{
	MatchStatusUpcoming,
	MatchStatusInProgress,
	MatchStatusCompleted,
	MatchStatusCanceled,
}

// String implements fmt.Stringer.
func (s MatchStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known MatchStatus.
func (s MatchStatus) IsValid() bool {
	for _, candidate := range validMatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusCanceled
}

// ParseMatchStatus converts raw input into a MatchStatus.
func ParseMatchStatus(value string) (MatchStatus, error) {
	for _, candidate := range validMatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match status %q", value)
}

// MatchVisibility controls who can discover a match.
type MatchVisibility string

const (
	MatchVisibilityPublic      MatchVisibility = "public"
	MatchVisibilityPrivate     MatchVisibility = "private"
	MatchVisibilityPublicTeam  MatchVisibility = "public_team"
	MatchVisibilityPrivateTeam MatchVisibility = "private_team"
	MatchVisibilityCompetition MatchVisibility = "competition"
	MatchVisibilityOther       MatchVisibility = "other"
)

var validMatchVisibilities = []MatchVisibility{
	MatchVisibilityPublic,
	MatchVisibilityPrivate,
	MatchVisibilityPublicTeam,
	MatchVisibilityPrivateTeam,
	MatchVisibilityCompetition,
	MatchVisibilityOther,
}

// String implements fmt.Stringer.
func (v MatchVisibility) String() string {
	return string(v)
}

// IsValid reports whether the value matches a known MatchVisibility.
func (v MatchVisibility) IsValid() bool {
	for _, candidate := range validMatchVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// IsListed reports whether the match shows up for users without a membership.
func (v MatchVisibility) IsListed() bool {
	switch v {
	case MatchVisibilityPublic, MatchVisibilityPublicTeam, MatchVisibilityCompetition:
		return true
	default:
		return false
	}
}

// ParseMatchVisibility converts raw input into a MatchVisibility.
func ParseMatchVisibility(value string) (MatchVisibility, error) {
	for _, candidate := range validMatchVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match visibility %q", value)
}

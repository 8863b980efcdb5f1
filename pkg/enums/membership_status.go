package enums

import "fmt"

// MatchMembershipStatus captures a user's standing within a match.
type MatchMembershipStatus string

const (
	MatchMembershipInvited MatchMembershipStatus = "invited"
	MatchMembershipMember  MatchMembershipStatus = "member"
	MatchMembershipAdmin   MatchMembershipStatus = "admin"
	MatchMembershipDenied  MatchMembershipStatus = "denied"
	MatchMembershipKicked  MatchMembershipStatus = "kicked"
	MatchMembershipBanned  MatchMembershipStatus = "banned"
	MatchMembershipLeft    MatchMembershipStatus = "left"
)

var validMatchMembershipStatuses = []MatchMembershipStatus{
	MatchMembershipInvited,
	MatchMembershipMember,
	MatchMembershipAdmin,
	MatchMembershipDenied,
	MatchMembershipKicked,
	MatchMembershipBanned,
	MatchMembershipLeft,
}

// String implements fmt.Stringer.
func (m MatchMembershipStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MatchMembershipStatus.
func (m MatchMembershipStatus) IsValid() bool {
	for _, candidate := range validMatchMembershipStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsParticipant reports whether the membership counts toward the roster.
func (m MatchMembershipStatus) IsParticipant() bool {
	return m == MatchMembershipMember || m == MatchMembershipAdmin
}

// ParticipantMatchMembershipStatuses lists the statuses that occupy a roster slot.
func ParticipantMatchMembershipStatuses() []MatchMembershipStatus {
	return []MatchMembershipStatus{MatchMembershipMember, MatchMembershipAdmin}
}

// ParseMatchMembershipStatus converts raw input into a MatchMembershipStatus.
func ParseMatchMembershipStatus(value string) (MatchMembershipStatus, error) {
	for _, candidate := range validMatchMembershipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match membership status %q", value)
}

// TeamMembershipStatus captures a user's standing within a team.
type TeamMembershipStatus string

const (
	TeamMembershipInvited TeamMembershipStatus = "invited"
	TeamMembershipMember  TeamMembershipStatus = "member"
	TeamMembershipAdmin   TeamMembershipStatus = "admin"
	TeamMembershipDenied  TeamMembershipStatus = "denied"
	TeamMembershipKicked  TeamMembershipStatus = "kicked"
	TeamMembershipLeft    TeamMembershipStatus = "left"
	TeamMembershipWinner  TeamMembershipStatus = "winner"
)

var validTeamMembershipStatuses = []TeamMembershipStatus{
	TeamMembershipInvited,
	TeamMembershipMember,
	TeamMembershipAdmin,
	TeamMembershipDenied,
	TeamMembershipKicked,
	TeamMembershipLeft,
	TeamMembershipWinner,
}

// String implements fmt.Stringer.
func (m TeamMembershipStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known TeamMembershipStatus.
func (m TeamMembershipStatus) IsValid() bool {
	for _, candidate := range validTeamMembershipStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsActive reports whether the membership grants access to team resources.
func (m TeamMembershipStatus) IsActive() bool {
	return m == TeamMembershipMember || m == TeamMembershipAdmin || m == TeamMembershipWinner
}

// ParseTeamMembershipStatus converts raw input into a TeamMembershipStatus.
func ParseTeamMembershipStatus(value string) (TeamMembershipStatus, error) {
	for _, candidate := range validTeamMembershipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid team membership status %q", value)
}

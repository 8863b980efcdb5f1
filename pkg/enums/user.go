package enums

import "fmt"

// UserRole is the platform-wide role carried in access tokens.
type UserRole string

const (
	UserRolePlayer UserRole = "player"
	UserRoleOwner  UserRole = "owner"
	UserRoleAdmin  UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRolePlayer,
	UserRoleOwner,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value matches a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// GameType groups games in listings.
type GameType string

const (
	GameTypeSport  GameType = "sport"
	GameTypeEsport GameType = "esport"
	GameTypeBoard  GameType = "board"
	GameTypeOther  GameType = "other"
)

var validGameTypes = []GameType{
	GameTypeSport,
	GameTypeEsport,
	GameTypeBoard,
	GameTypeOther,
}

// IsValid reports whether the value matches a known GameType.
func (g GameType) IsValid() bool {
	for _, candidate := range validGameTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGameType converts raw input into a GameType.
func ParseGameType(value string) (GameType, error) {
	for _, candidate := range validGameTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid game type %q", value)
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	Staff  bool
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	Staff  bool           `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

// Privileged reports whether the bearer may act on matches they did not
// create: platform staff and admins.
func (c *AccessTokenClaims) Privileged() bool {
	return c.Staff || c.Role == enums.UserRoleAdmin
}

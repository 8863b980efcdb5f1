package users

import (
	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
)

// UserDTO is the public profile shape; email is only shown to its owner.
type UserDTO struct {
	ID       uuid.UUID      `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email,omitempty"`
	Role     enums.UserRole `json:"role"`
	IsStaff  bool           `json:"is_staff"`
}

func FromModel(u *models.User, self bool) *UserDTO {
	if u == nil {
		return nil
	}
	dto := &UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsStaff:  u.IsStaff,
	}
	if self {
		dto.Email = u.Email
	}
	return dto
}

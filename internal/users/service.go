package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db/models"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
)

const minSearchLength = 2

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.User, error)
}

// Service resolves user profiles for invitations and display.
type Service interface {
	Me(ctx context.Context, actor types.Actor) (*UserDTO, error)
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*UserDTO, error)
	Search(ctx context.Context, query string, limit int) ([]UserDTO, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, actor types.Actor) (*UserDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.Get(ctx, actor, actor.UserID)
}

func (s *service) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user, actor.Is(user.ID) || actor.Staff), nil
}

// Search matches on a username prefix; an exact match is listed first.
func (s *service) Search(ctx context.Context, query string, limit int) ([]UserDTO, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "query must be at least 2 characters")
	}
	limit = pagination.NormalizeLimit(limit)

	rows, err := s.repo.SearchByUsername(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i], false)
		if strings.EqualFold(rows[i].Username, query) {
			out = append([]UserDTO{*dto}, out...)
			continue
		}
		out = append(out, *dto)
	}
	return out, nil
}

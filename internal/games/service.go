// Package games manages the game catalogue. Anyone may read it; only staff
// add or retire games.
package games

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/types"
)

// ListParams filters the catalogue. Only staff may include archived games.
type ListParams struct {
	Type            *enums.GameType
	IncludeArchived bool
}

// CreateParams describes a new catalogue entry.
type CreateParams struct {
	Name       string
	Type       enums.GameType
	BasePoints int64
}

type Service interface {
	List(ctx context.Context, actor types.Actor, params ListParams) ([]models.Game, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Game, error)
	Create(ctx context.Context, actor types.Actor, params CreateParams) (*models.Game, error)
	SetArchived(ctx context.Context, actor types.Actor, id uuid.UUID, archived bool) (*models.Game, error)
}

const maxGameNameLength = 100

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("games repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor types.Actor, params ListParams) ([]models.Game, error) {
	if params.Type != nil && !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid game type %q", *params.Type))
	}
	if params.IncludeArchived && !actor.Staff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can list archived games")
	}
	rows, err := s.repo.List(ctx, params.Type, params.IncludeArchived)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}
	if rows == nil {
		rows = []models.Game{}
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "game not found", "load game")
	}
	return game, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, params CreateParams) (*models.Game, error) {
	if !actor.Staff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can add games")
	}
	name := strings.TrimSpace(params.Name)
	if name == "" || len([]rune(name)) > maxGameNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("game name must be 1-%d characters", maxGameNameLength))
	}
	if !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid game type %q", params.Type))
	}
	if params.BasePoints < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "base points must not be negative")
	}

	taken, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check game name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a game with this name already exists")
	}

	game := &models.Game{Name: name, GameType: params.Type, BasePoints: params.BasePoints}
	if err := s.repo.Create(ctx, game); err != nil {
		return nil, repo.Translate(err, "game not found", "create game")
	}
	return game, nil
}

func (s *service) SetArchived(ctx context.Context, actor types.Actor, id uuid.UUID, archived bool) (*models.Game, error) {
	if !actor.Staff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can archive games")
	}
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, repo.Translate(err, "game not found", "archive game")
	}
	return s.Get(ctx, id)
}

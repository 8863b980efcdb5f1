package games

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
)

// Repository persists the game catalogue.
type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Game, error)
	List(ctx context.Context, gameType *enums.GameType, includeArchived bool) ([]models.Game, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, game *models.Game) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repository) List(ctx context.Context, gameType *enums.GameType, includeArchived bool) ([]models.Game, error) {
	query := r.db.WithContext(ctx).Model(&models.Game{})
	if gameType != nil {
		query = query.Where("game_type = ?", *gameType)
	}
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	var rows []models.Game
	err := query.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Game{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, game *models.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *repository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

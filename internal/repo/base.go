package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/argvision/argvision-backend/pkg/db/models"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx rebinds the base to a transaction. A nil tx keeps the current
// connection.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// ForUpdate returns a query that row-locks what it reads until the enclosing
// transaction ends. SQLite ignores the clause; its writers are serialised.
func (b Base) ForUpdate(ctx context.Context) *gorm.DB {
	return b.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockMatch loads a match and holds its row lock. Every mutation of a match
// or its roster goes through here first.
func (b Base) LockMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	if err := b.ForUpdate(ctx).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// FindMatch loads a match without locking it.
func (b Base) FindMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	if err := b.DB(ctx).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

// Translate maps a persistence error onto a service error: missing rows
// become NotFound with the given message, unique violations Conflict, typed
// errors pass through, and anything else is a Dependency failure of op.
func Translate(err error, notFound, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	case pkgerrors.As(err) != nil:
		return err
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, op)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
}

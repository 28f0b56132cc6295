package persistent

import (
	"errors"
	"fmt"

	"cloud-video/internal/entity"

	"gorm.io/gorm"
)

// translateError maps driver errors (already normalised by gorm's
// TranslateError option) onto the domain taxonomy.
func translateError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", entity.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", entity.ErrConflict, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s references a missing row", entity.ErrNotFound, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

package usecase

import (
	"fmt"

	"cloud-video/internal/entity"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}

// bounds validates the window. A zero limit selects the default and limits
// above MaxPageLimit are clamped.
func (p Page) bounds() (offset, limit int, err error) {
	if p.Skip < 0 || p.Limit < 0 {
		return 0, 0, fmt.Errorf("%w: skip and limit must not be negative", entity.ErrValidation)
	}
	limit = p.Limit
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return p.Skip, limit, nil
}

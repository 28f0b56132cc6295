// Package guard resolves the acting user of a request and enforces role and
// ownership rules.
package guard

import (
	"context"
	"errors"
	"fmt"

	"cloud-video/internal/entity"
	"cloud-video/pkg/jwt"
	"cloud-video/pkg/logger"
)

type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

type Guard struct {
	tokens TokenVerifier
	users  UserLookup
	log    *logger.Logger
}

func New(tokens TokenVerifier, users UserLookup, log *logger.Logger) *Guard {
	return &Guard{tokens: tokens, users: users, log: log}
}

// ResolveActor returns the user a token was issued for. Every failure is
// reported as entity.ErrUnauthenticated; the concrete reason is only logged.
func (g *Guard) ResolveActor(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", entity.ErrUnauthenticated)
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			g.log.Warn("Rejected token: expired")
		default:
			g.log.Warn("Rejected token: %v", err)
		}
		return nil, fmt.Errorf("%w: invalid token", entity.ErrUnauthenticated)
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			g.log.Warn("Rejected token: subject %d no longer exists", claims.UserID)
			return nil, fmt.Errorf("%w: invalid token", entity.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func RequireAdmin(actor *entity.User) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", entity.ErrForbidden)
	}
	return nil
}

func RequireOwnerOrAdmin(actor *entity.User, ownerID uint) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", entity.ErrForbidden)
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return fmt.Errorf("%w: not the owner", entity.ErrForbidden)
}

func RequireRole(actor *entity.User, allowed ...entity.Role) error {
	if actor != nil {
		for _, role := range allowed {
			if actor.Role == role {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: role not permitted", entity.ErrForbidden)
}

// selfAssignable is the complete set of roles a user may give themselves.
var selfAssignable = map[entity.Role]bool{
	entity.RoleConsumer: true,
	entity.RoleCreator:  true,
}

// CheckSelfRoleChange allows a user to switch their own role between
// consumer and creator. Any other value, admin included, is refused
// regardless of the actor's current role.
func CheckSelfRoleChange(requested entity.Role) error {
	if !selfAssignable[requested] {
		return fmt.Errorf("%w: you can only choose consumer or creator", entity.ErrForbidden)
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/password"
	"cloud-video/pkg/storage"
)

type CreateUserInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName *string
	// Role is honoured only for admin-created accounts. Empty means consumer.
	Role string
}

type UpdateUserInput struct {
	Email       *string
	DisplayName *string
	Role        *string
}

type UserUseCase interface {
	Create(ctx context.Context, actor *entity.User, in CreateUserInput) (*entity.User, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	List(ctx context.Context, actor *entity.User, page Page) ([]*entity.User, error)
	Update(ctx context.Context, actor *entity.User, id uint, in UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, actor *entity.User, id uint) error
	ChangeOwnRole(ctx context.Context, actor *entity.User, role string) (*entity.User, error)
}

type userUseCase struct {
	userRepo persistent.UserRepository
	storage  storage.Storage
	logger   *logger.Logger
}

func NewUserUseCase(userRepo persistent.UserRepository, storage storage.Storage, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (uc *userUseCase) Create(ctx context.Context, actor *entity.User, in CreateUserInput) (*entity.User, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}

	role := entity.RoleConsumer
	if in.Role != "" {
		parsed, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	user, err := createUser(ctx, uc.userRepo, in, role)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Admin %d created user %d with role %s", actor.ID, user.ID, user.Role)
	return user, nil
}

func (uc *userUseCase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *userUseCase) List(ctx context.Context, actor *entity.User, page Page) ([]*entity.User, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	offset, limit, err := page.bounds()
	if err != nil {
		return nil, err
	}
	return uc.userRepo.List(ctx, offset, limit)
}

func (uc *userUseCase) Update(ctx context.Context, actor *entity.User, id uint, in UpdateUserInput) (*entity.User, error) {
	var newRole entity.Role
	if in.Role != nil {
		parsed, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		newRole = parsed
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		return nil, fmt.Errorf("%w: email must not be empty", entity.ErrValidation)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admin can change roles", entity.ErrForbidden)
	}
	if err := guard.RequireOwnerOrAdmin(actor, user.ID); err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		existing, err := uc.userRepo.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, fmt.Errorf("%w: email already in use", entity.ErrConflict)
		case err != nil && !errors.Is(err, entity.ErrNotFound):
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.DisplayName != nil {
		user.DisplayName = in.DisplayName
	}
	if in.Role != nil {
		user.Role = newRole
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) Delete(ctx context.Context, actor *entity.User, id uint) error {
	if err := guard.RequireAdmin(actor); err != nil {
		return err
	}

	locators, err := uc.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	uc.logger.Info("Admin %d deleted user %d and %d videos", actor.ID, id, len(locators))

	cleanupCtx := context.WithoutCancel(ctx)
	for _, locator := range locators {
		uc.storage.Delete(cleanupCtx, locator)
	}
	return nil
}

func (uc *userUseCase) ChangeOwnRole(ctx context.Context, actor *entity.User, role string) (*entity.User, error) {
	requested, err := entity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckSelfRoleChange(requested); err != nil {
		return nil, err
	}

	if err := uc.userRepo.UpdateRole(ctx, actor.ID, requested); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, actor.ID)
}

// createUser checks email before username so a request colliding on both
// reports the email. The unique constraints remain the final arbiter.
func createUser(ctx context.Context, repo persistent.UserRepository, in CreateUserInput, role entity.Role) (*entity.User, error) {
	if err := ensureFree(ctx, repo.GetByEmail, in.Email, "email already registered"); err != nil {
		return nil, err
	}
	if err := ensureFree(ctx, repo.GetByUsername, in.Username, "username already taken"); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if errors.Is(err, password.ErrTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", entity.ErrValidation, password.MaxLength)
	}
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        in.Email,
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ensureFree(ctx context.Context, lookup func(context.Context, string) (*entity.User, error), value, msg string) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", entity.ErrConflict, msg)
	case errors.Is(err, entity.ErrNotFound):
		return nil
	default:
		return err
	}
}

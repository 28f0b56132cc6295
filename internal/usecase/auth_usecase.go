package usecase

import (
	"context"
	"errors"
	"fmt"

	"cloud-video/internal/entity"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/password"
)

type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName *string
}

type AuthUseCase interface {
	// Register creates a consumer account.
	Register(ctx context.Context, in RegisterInput) (*entity.User, error)
	// Login returns the user and a fresh access token.
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

type authUseCase struct {
	userRepo persistent.UserRepository
	tokens   TokenIssuer
	logger   *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, tokens TokenIssuer, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	user, err := createUser(ctx, uc.userRepo, CreateUserInput{
		Email:       in.Email,
		Username:    in.Username,
		Password:    in.Password,
		DisplayName: in.DisplayName,
	}, entity.RoleConsumer)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Registered user %d (%s)", user.ID, user.Username)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, pass string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", entity.ErrUnauthenticated)
		}
		return nil, "", err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", entity.ErrUnauthenticated)
	}

	token, err := uc.tokens.GenerateToken(user.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", err
	}
	return user, token, nil
}

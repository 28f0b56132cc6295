package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud-video/internal/entity"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/config"
	"cloud-video/pkg/database"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/password"
)

// seed creates the first admin account, or promotes an existing account with
// the given email to admin. The HTTP API has no way to do either.
func main() {
	var (
		email    = flag.String("email", "", "admin email")
		username = flag.String("username", "admin", "admin username (new accounts only)")
		pass     = flag.String("password", "", "admin password (new accounts only, 8 to 72 bytes)")
	)
	flag.Parse()

	log := logger.New()
	if *email == "" {
		log.Error("-email is required")
		os.Exit(2)
	}

	if err := run(log, *email, *username, *pass); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger, email, username, pass string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if cfg.IsDev() {
		if err := persistent.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := seedAdmin(ctx, persistent.NewUserRepository(db), email, username, pass)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Info("Admin account ready: id=%d email=%s", user.ID, user.Email)
	return nil
}

func seedAdmin(ctx context.Context, users persistent.UserRepository, email, username, pass string) (*entity.User, error) {
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == entity.RoleAdmin {
			return existing, nil
		}
		if err := users.UpdateRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			return nil, err
		}
		existing.Role = entity.RoleAdmin
		return existing, nil
	case !errors.Is(err, entity.ErrNotFound):
		return nil, err
	}

	if len(pass) < 8 || len(pass) > password.MaxLength {
		return nil, fmt.Errorf("password must be 8 to %d bytes", password.MaxLength)
	}
	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	admin := &entity.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

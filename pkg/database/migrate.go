package database

import (
	"context"
	"database/sql"
	"fmt"

	"cloud-video/migrations"

	"github.com/pressly/goose/v3"
)

// Migrator applies the embedded goose migrations to a PostgreSQL database.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: db}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	return goose.UpContext(ctx, m.db, ".")
}

func (m *Migrator) Down(ctx context.Context) error {
	return goose.DownContext(ctx, m.db, ".")
}

func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, ".")
}

package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloud-video/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Open connects to the database named by databaseURL. postgres:// and
// postgresql:// URLs use the pgx driver, sqlite://<path> uses SQLite with
// foreign keys enabled.
func Open(databaseURL string, log *logger.Logger) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if isSQLite {
		// SQLite allows a single writer; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// OpenSQL opens a plain database/sql handle on a PostgreSQL URL through the
// pgx stdlib driver.
func OpenSQL(databaseURL string) (*sql.DB, error) {
	if !isPostgresURL(databaseURL) {
		return nil, fmt.Errorf("unsupported database url for sql migrations: %q", redact(databaseURL))
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool, error) {
	switch {
	case isPostgresURL(databaseURL):
		return postgres.Open(databaseURL), false, nil
	case strings.HasPrefix(databaseURL, sqliteScheme):
		return sqlite.Open(sqliteDSN(databaseURL)), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported database url %q", redact(databaseURL))
	}
}

func isPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

func sqliteDSN(databaseURL string) string {
	dsn := strings.TrimPrefix(databaseURL, sqliteScheme)
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// redact keeps the scheme of a URL so errors never echo credentials.
func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "..."
	}
	return "..."
}

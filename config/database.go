package config

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LovationAdmin/horizon-api/migration"

	_ "github.com/lib/pq"
)

func InitDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(db *sql.DB) error {
	if err := migration.Up(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

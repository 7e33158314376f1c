package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/tryouts/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var ErrForeignKeysOff = errors.New("database DSN must set _foreign_keys=on")

// InitDB opens the sqlite database at dsn. The DSN should carry
// _txlock=immediate so every transaction takes the write lock up front,
// which is what serializes registrations and generation per database.
// It must also carry _foreign_keys=on: the pragma is per connection, so only
// the DSN reaches every connection in the pool.
func InitDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	var foreignKeys bool
	if err := db.Get(&foreignKeys, "PRAGMA foreign_keys"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if !foreignKeys {
		db.Close()
		return nil, ErrForeignKeysOff
	}

	return db, nil
}

// RunMigrations applies the embedded migrations. The migrate instance is not
// closed because closing it would also close the shared *sql.DB.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Package database opens the two file-backed SQLite stores (posts and
// subscribers) and applies their embedded schema migrations.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/posts/*.sql
var postsMigrations embed.FS

//go:embed migrations/subscribers/*.sql
var subscribersMigrations embed.FS

// OpenPosts opens (and migrates) the posts database under dataDir.
func OpenPosts(dataDir string) (*sql.DB, error) {
	return open(dataDir, "posts.db", postsMigrations, "migrations/posts")
}

// OpenSubscribers opens (and migrates) the subscribers database under dataDir.
func OpenSubscribers(dataDir string) (*sql.DB, error) {
	return open(dataDir, "subscribers.db", subscribersMigrations, "migrations/subscribers")
}

func open(dataDir, file string, fsys embed.FS, dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, file))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}

	// SQLite allows a single writer; serializing through one connection
	// avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db, fsys, dir); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", file, err)
	}

	return db, nil
}

func migrateUp(db *sql.DB, fsys embed.FS, dir string) error {
	dbInstance, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create db instance: %w", err)
	}

	srcInstance, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("create source instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcInstance, "sqlite3", dbInstance)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pessoas/internal/dbx"
	"github.com/dmitrijs2005/pessoas/internal/server/migrations"
	"github.com/dmitrijs2005/pessoas/internal/server/repositories/pessoas"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes schema migration hooks.
type PostgresRepositoryManager struct{}

// Pessoas returns a pessoas.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Pessoas(db dbx.DBTX) pessoas.Repository {
	return pessoas.NewPostgresRepository(db)
}

// seams for testing goose
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return goose.DownToContext(ctx, db, dir, version, opts...)
	}
)

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// RunMigrations applies every embedded migration that is not applied yet.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// DropSchema rolls back every migration, removing all tables and their data.
func (m *PostgresRepositoryManager) DropSchema(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := gooseDownToContext(ctx, db, ".", 0); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

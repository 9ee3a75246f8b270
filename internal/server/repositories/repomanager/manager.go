package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pessoas/internal/dbx"
	"github.com/dmitrijs2005/pessoas/internal/server/repositories/pessoas"
)

// RepositoryManager vends repositories bound to a DBTX (a pool or a
// transaction) and owns the schema lifecycle.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	DropSchema(ctx context.Context, db *sql.DB) error
	Pessoas(db dbx.DBTX) pessoas.Repository
}

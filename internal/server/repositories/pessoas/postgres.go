package pessoas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pessoas/internal/common"
	"github.com/dmitrijs2005/pessoas/internal/dbx"
	"github.com/dmitrijs2005/pessoas/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts p and fills in its id. The unique constraint on email is
// checked by the same statement, so concurrent creates with one email cannot
// both succeed.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Pessoa) (*models.Pessoa, error) {

	query :=
		`INSERT INTO pessoas (nome, email, senha, cidade, activo)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.Nome, p.Email, p.Senha, p.Cidade, p.Activo).Scan(&p.ID)

	if err != nil {
		return nil, mapWriteError(err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Pessoa, error) {
	query :=
		`SELECT id, nome, email, senha, cidade, activo FROM pessoas
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Pessoa, error) {
	query :=
		`SELECT id, nome, email, senha, cidade, activo FROM pessoas
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, email)
}

// GetByName returns the pessoa with the lowest id among those named nome.
func (r *PostgresRepository) GetByName(ctx context.Context, nome string) (*models.Pessoa, error) {
	query :=
		`SELECT id, nome, email, senha, cidade, activo FROM pessoas
		 WHERE nome = $1
		 ORDER BY id
		 LIMIT 1
		 `

	return r.getOne(ctx, query, nome)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Pessoa, error) {
	query :=
		`SELECT id, nome, email, senha, cidade, activo FROM pessoas
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Pessoa, 0)
	for rows.Next() {
		p := &models.Pessoa{}
		if err := rows.Scan(&p.ID, &p.Nome, &p.Email, &p.Senha, &p.Cidade, &p.Activo); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update overwrites every mutable column of the row with the values of p.
func (r *PostgresRepository) Update(ctx context.Context, id int64, p *models.Pessoa) (*models.Pessoa, error) {
	query :=
		`UPDATE pessoas
		 SET nome = $1, email = $2, senha = $3, cidade = $4, activo = $5
		 WHERE id = $6
		 RETURNING id, nome, email, senha, cidade, activo
		 `

	updated := &models.Pessoa{}
	err := r.db.QueryRowContext(ctx, query,
		p.Nome, p.Email, p.Senha, p.Cidade, p.Activo, id).
		Scan(&updated.ID, &updated.Nome, &updated.Email, &updated.Senha, &updated.Cidade, &updated.Activo)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, mapWriteError(err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM pessoas
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Pessoa, error) {
	p := &models.Pessoa{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Nome, &p.Email, &p.Senha, &p.Cidade, &p.Activo)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// mapWriteError turns a unique violation into common.ErrorDuplicateKey and
// wraps anything else as a storage fault.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorDuplicateKey, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

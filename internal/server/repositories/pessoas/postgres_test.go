package pessoas

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pessoas/internal/common"
	"github.com/dmitrijs2005/pessoas/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+pessoas\s*\(nome,\s*email,\s*senha,\s*cidade,\s*activo\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`
	byIDQ    = `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*cidade,\s*activo\s+FROM\s+pessoas\s+WHERE\s+id\s*=\s*\$1\s*$`
	byEmailQ = `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*cidade,\s*activo\s+FROM\s+pessoas\s+WHERE\s+email\s*=\s*\$1\s*$`
	byNameQ  = `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*cidade,\s*activo\s+FROM\s+pessoas\s+WHERE\s+nome\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+1\s*$`
	listQ    = `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*cidade,\s*activo\s+FROM\s+pessoas\s+ORDER\s+BY\s+id\s*$`
	updateQ  = `(?s)^UPDATE\s+pessoas\s+SET\s+nome\s*=\s*\$1,\s*email\s*=\s*\$2,\s*senha\s*=\s*\$3,\s*cidade\s*=\s*\$4,\s*activo\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$6\s+RETURNING\s+id,\s*nome,\s*email,\s*senha,\s*cidade,\s*activo\s*$`
	deleteQ  = `(?s)^DELETE\s+FROM\s+pessoas\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var columns = []string{"id", "nome", "email", "senha", "cidade", "activo"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

func alice() *models.Pessoa {
	return &models.Pessoa{Nome: "Alice", Email: "alice@example.com", Senha: "1234", Cidade: strptr("SBO"), Activo: true}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("Alice", "alice@example.com", "1234", "SBO", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := repo.Create(context.Background(), alice())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Alice", got.Nome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilCidadeIsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("Bob", "bob@example.com", "x", nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	got, err := repo.Create(context.Background(), &models.Pessoa{Nome: "Bob", Email: "bob@example.com", Senha: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Nil(t, got.Cidade)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "pessoas_email_key"})

	_, err := repo.Create(context.Background(), alice())
	assert.ErrorIs(t, err, common.ErrorDuplicateKey)
	assert.Contains(t, err.Error(), "pessoas_email_key")
}

func TestCreate_OtherPgErrorIsStorageFault(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23502", Message: "null value"})

	_, err := repo.Create(context.Background(), alice())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorDuplicateKey)
	assert.Regexp(t, `db error: .*null value`, err.Error())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), alice())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Alice", "alice@example.com", "1234", "SBO", true))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	want := alice()
	want.ID = 1
	assert.Equal(t, want, got)
}

func TestGetByID_NullCidade(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "Caio", "caio@example.com", "pw", nil, false))

	got, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, got.Cidade)
	assert.False(t, got.Activo)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs(int64(1)).WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQ).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Alice", "alice@example.com", "1234", "SBO", true))
	mock.ExpectQuery(byEmailQ).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byNameQ).
		WithArgs("Alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "Alice", "a2@example.com", "1234", nil, true))

	got, err := repo.GetByName(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "a2@example.com", got.Email)
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Alice", "alice@example.com", "1234", "SBO", true).
			AddRow(int64(2), "Bob", "bob@example.com", "x", nil, false))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Nome)
	assert.Equal(t, "Bob", got[1].Nome)
	assert.Nil(t, got[1].Cidade)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Alice", "alice@example.com", "1234", "SBO", true).
			RowError(0, errors.New("broken row")))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("db err"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).
		WithArgs("Alice B", "aliceb@example.com", "5678", nil, false, int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Alice B", "aliceb@example.com", "5678", nil, false))

	got, err := repo.Update(context.Background(), 1, &models.Pessoa{Nome: "Alice B", Email: "aliceb@example.com", Senha: "5678"})
	require.NoError(t, err)
	assert.Equal(t, &models.Pessoa{ID: 1, Nome: "Alice B", Email: "aliceb@example.com", Senha: "5678"}, got)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 9, alice())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), 1, alice())
	assert.ErrorIs(t, err, common.ErrorDuplicateKey)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		result  func(m sqlmock.Sqlmock)
		wantErr error
		anyErr  bool
	}{
		{
			name: "deleted",
			result: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			result: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "exec error",
			result: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs(int64(1)).WillReturnError(errors.New("db err"))
			},
			anyErr: true,
		},
		{
			name: "rows affected error",
			result: func(m sqlmock.Sqlmock) {
				m.ExpectExec(deleteQ).WithArgs(int64(1)).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.result(mock)

			err := repo.Delete(context.Background(), 1)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "db error")
			default:
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pessoas/internal/common"
	"github.com/dmitrijs2005/pessoas/internal/dbx"
	"github.com/dmitrijs2005/pessoas/internal/server/models"
	"github.com/dmitrijs2005/pessoas/internal/server/repositories/pessoas"
	"github.com/dmitrijs2005/pessoas/internal/server/repositories/repomanager"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PasswordHasher transforms a password before it is stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PessoaService runs every Record Store operation inside its own transaction.
type PessoaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tracer      trace.Tracer
}

// NewPessoaService builds the service. A nil tracer falls back to the global
// provider.
func NewPessoaService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher, tracer trace.Tracer) *PessoaService {
	if tracer == nil {
		tracer = otel.Tracer("github.com/dmitrijs2005/pessoas/internal/server/services")
	}
	return &PessoaService{
		db:          db,
		repomanager: m,
		hasher:      h,
		tracer:      tracer,
	}
}

func (s *PessoaService) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "PessoaService."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *PessoaService) hash(p *models.Pessoa) (*models.Pessoa, error) {
	if s.hasher == nil {
		return p, nil
	}
	senha, err := s.hasher.Hash(p.Senha)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}
	cp := *p
	cp.Senha = senha
	return &cp, nil
}

// Create stores a new pessoa. A taken email yields common.ErrorDuplicateKey.
func (s *PessoaService) Create(ctx context.Context, p *models.Pessoa) (result *models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "Create", attribute.String("pessoa.email", p.Email))
	defer func() { endSpan(span, err) }()

	p, err = s.hash(p)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Pessoas(tx).Create(ctx, p)
		if err != nil {
			return fmt.Errorf("error creating pessoa: %w", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("pessoa.id", result.ID))
	return result, nil
}

// Get returns the pessoa with the given id or common.ErrorNotFound.
func (s *PessoaService) Get(ctx context.Context, id int64) (result *models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "Get", attribute.Int64("pessoa.id", id))
	defer func() { endSpan(span, err) }()

	err = s.read(ctx, func(ctx context.Context, repo pessoas.Repository) (err error) {
		result, err = repo.GetByID(ctx, id)
		return err
	})
	return result, err
}

func (s *PessoaService) GetByEmail(ctx context.Context, email string) (result *models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "GetByEmail", attribute.String("pessoa.email", email))
	defer func() { endSpan(span, err) }()

	err = s.read(ctx, func(ctx context.Context, repo pessoas.Repository) (err error) {
		result, err = repo.GetByEmail(ctx, email)
		return err
	})
	return result, err
}

func (s *PessoaService) GetByName(ctx context.Context, nome string) (result *models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "GetByName")
	defer func() { endSpan(span, err) }()

	err = s.read(ctx, func(ctx context.Context, repo pessoas.Repository) (err error) {
		result, err = repo.GetByName(ctx, nome)
		return err
	})
	return result, err
}

// List returns every pessoa in ascending id order.
func (s *PessoaService) List(ctx context.Context) (result []*models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "List")
	defer func() { endSpan(span, err) }()

	err = s.read(ctx, func(ctx context.Context, repo pessoas.Repository) (err error) {
		result, err = repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("pessoa.count", len(result)))
	return result, nil
}

// Update overwrites every mutable field of the pessoa with the given id.
func (s *PessoaService) Update(ctx context.Context, id int64, p *models.Pessoa) (result *models.Pessoa, err error) {
	ctx, span := s.startSpan(ctx, "Update", attribute.Int64("pessoa.id", id))
	defer func() { endSpan(span, err) }()

	p, err = s.hash(p)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		updated, err := s.repomanager.Pessoas(tx).Update(ctx, id, p)
		if err != nil {
			return fmt.Errorf("error updating pessoa %d: %w", id, err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PessoaService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "Delete", attribute.Int64("pessoa.id", id))
	defer func() { endSpan(span, err) }()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Pessoas(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting pessoa %d: %w", id, err)
		}
		return nil
	})
}

func (s *PessoaService) read(ctx context.Context, fn func(ctx context.Context, repo pessoas.Repository) error) error {
	return dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Pessoas(tx))
	})
}

package pessoas

import (
	"context"

	"github.com/dmitrijs2005/pessoas/internal/server/models"
)

// Repository is the Record Store of pessoas. Lookups of missing rows return
// common.ErrorNotFound, email collisions return common.ErrorDuplicateKey.
type Repository interface {
	Create(ctx context.Context, p *models.Pessoa) (*models.Pessoa, error)
	GetByID(ctx context.Context, id int64) (*models.Pessoa, error)
	GetByEmail(ctx context.Context, email string) (*models.Pessoa, error)
	GetByName(ctx context.Context, nome string) (*models.Pessoa, error)
	List(ctx context.Context) ([]*models.Pessoa, error)
	Update(ctx context.Context, id int64, p *models.Pessoa) (*models.Pessoa, error)
	Delete(ctx context.Context, id int64) error
}

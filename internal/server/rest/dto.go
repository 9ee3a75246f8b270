package rest

import "github.com/dmitrijs2005/pessoas/internal/server/models"

// PessoaRequest is the body of create and update requests.
type PessoaRequest struct {
	Nome   string  `json:"nome" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Senha  string  `json:"senha" validate:"required"`
	Cidade *string `json:"cidade"`
	Activo *bool   `json:"activo"`
}

// Model converts the request into a record. Activo defaults to true.
func (r *PessoaRequest) Model() *models.Pessoa {
	activo := true
	if r.Activo != nil {
		activo = *r.Activo
	}
	return &models.Pessoa{
		Nome:   r.Nome,
		Email:  r.Email,
		Senha:  r.Senha,
		Cidade: r.Cidade,
		Activo: activo,
	}
}

// PessoaResponse is a stored pessoa as returned to clients. The password is
// never part of it.
type PessoaResponse struct {
	ID     int64   `json:"id"`
	Nome   string  `json:"nome"`
	Email  string  `json:"email"`
	Cidade *string `json:"cidade"`
	Activo bool    `json:"activo"`
}

func NewPessoaResponse(p *models.Pessoa) PessoaResponse {
	return PessoaResponse{
		ID:     p.ID,
		Nome:   p.Nome,
		Email:  p.Email,
		Cidade: p.Cidade,
		Activo: p.Activo,
	}
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

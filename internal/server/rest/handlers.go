package rest

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/pessoas/internal/common"
)

func (s *HTTPServer) check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// testTrace emits a manual span, for checking the exporter end to end.
func (s *HTTPServer) testTrace(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "manual-test-span")
	defer span.End()

	s.logger.Info(ctx, "trace probe executed")
	writeJSON(w, http.StatusOK, StatusResponse{Status: "trace ok"})
}

func (s *HTTPServer) createPessoa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.decodePessoa(w, r)
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, detailCreateDuplicate)
		return
	}

	p, err := s.pessoas.Create(ctx, req.Model())
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, detailCreateDuplicate)
		return
	}

	s.metrics.RecordPessoaCreated(common.PessoasRoute, p.Cidade)
	s.logger.Info(ctx, "pessoa created", "id", p.ID)

	writeJSON(w, http.StatusCreated, NewPessoaResponse(p))
}

func (s *HTTPServer) listPessoas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.pessoas.List(ctx)
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, "")
		return
	}

	out := make([]PessoaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewPessoaResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) getPessoa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, "")
		return
	}

	p, err := s.pessoas.Get(ctx, id)
	if err != nil {
		s.handleServiceError(ctx, w, err, id, "")
		return
	}

	writeJSON(w, http.StatusOK, NewPessoaResponse(p))
}

func (s *HTTPServer) updatePessoa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, detailUpdateDuplicate)
		return
	}

	req, err := s.decodePessoa(w, r)
	if err != nil {
		s.handleServiceError(ctx, w, err, id, detailUpdateDuplicate)
		return
	}

	p, err := s.pessoas.Update(ctx, id, req.Model())
	if err != nil {
		s.handleServiceError(ctx, w, err, id, detailUpdateDuplicate)
		return
	}

	writeJSON(w, http.StatusOK, NewPessoaResponse(p))
}

func (s *HTTPServer) deletePessoa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		s.handleServiceError(ctx, w, err, 0, "")
		return
	}

	if err := s.pessoas.Delete(ctx, id); err != nil {
		s.handleServiceError(ctx, w, err, id, "")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: fmt.Sprintf("Usuário %d deletado.", id),
	})
}

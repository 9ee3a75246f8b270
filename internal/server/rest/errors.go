package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/pessoas/internal/common"
)

const (
	detailCreateDuplicate  = "Não foi possível criar o usuário (e-mail pode estar duplicado)."
	detailUpdateDuplicate  = "Não foi possível atualizar o usuário (e-mail pode estar duplicado)."
	detailInternal         = "Erro interno do servidor."
	detailRouteNotFound    = "Rota não encontrada."
	detailMethodNotAllowed = "Método não permitido."
)

func notFoundDetail(id int64) string {
	return fmt.Sprintf("Usuário com ID %d não encontrado.", id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// handleServiceError converts service errors to HTTP responses. Storage
// faults are logged and answered with a generic detail. duplicateDetail is
// only set by the operations that write an email.
func (s *HTTPServer) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, id int64, duplicateDetail string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, notFoundDetail(id))
	case errors.Is(err, common.ErrorDuplicateKey) && duplicateDetail != "":
		s.logger.Warn(ctx, "duplicate email", "error", err)
		writeError(w, http.StatusBadRequest, duplicateDetail)
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, detailInternal)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, detailRouteNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
}

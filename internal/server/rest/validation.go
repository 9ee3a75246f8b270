package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pessoas/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodePessoa reads and validates a PessoaRequest. Every failure wraps
// common.ErrorValidation.
func (s *HTTPServer) decodePessoa(w http.ResponseWriter, r *http.Request) (*PessoaRequest, error) {
	var req PessoaRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, decodeError(err)
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: corpo JSON inválido: dados após o objeto", common.ErrorValidation)
	}

	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}

	return &req, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("%w: campo '%s' inválido", common.ErrorValidation, typeErr.Field)
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: corpo excede %d bytes", common.ErrorValidation, maxErr.Limit)
	}

	return fmt.Errorf("%w: corpo JSON inválido", common.ErrorValidation)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("campo '%s' é obrigatório", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("campo '%s' não é um e-mail válido", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("campo '%s' inválido (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id '%s' não é um inteiro", common.ErrorValidation, raw)
	}
	return id, nil
}

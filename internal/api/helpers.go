package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/validation"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the body into dst and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		logger.FromContext(r.Context()).Debug("invalid JSON body: %v", err)
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Пустое тело запроса")
		}
		return errors.NewBadRequestError("Некорректный JSON")
	}
	if fields := validation.Struct(dst); fields != nil {
		return errors.NewFieldErrors(fields)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.FromContext(r.Context()).Warn("invalid %s: %s", name, raw)
		return 0, errors.NewBadRequestError("Некорректный идентификатор: " + name)
	}
	return id, nil
}

// pageParams reads zero-based page and size query parameters.
func (s *Server) pageParams(r *http.Request) (models.PageRequest, error) {
	var req models.PageRequest
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.NewValidationError("page", "Значение должно быть не меньше 0")
		}
		req.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, errors.NewValidationError("size", "Значение должно быть не меньше 1")
		}
		req.Size = n
	}
	return req.Normalize(s.DefaultPageSize, s.MaxPageSize), nil
}

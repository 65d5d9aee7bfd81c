package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/validation"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AuthService.Register(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("user registered: id=%d", res.User.ID)
	respondJSON(w, r, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AuthService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.AuthService.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if res := validation.Email(email); !res.IsValid {
		handleError(w, r, errors.NewValidationError("email", res.Error))
		return
	}

	available, err := s.AuthService.EmailAvailable(r.Context(), email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, availabilityResponse{Available: available})
}

func (s *Server) handleCheckLogin(w http.ResponseWriter, r *http.Request) {
	login := r.URL.Query().Get("login")
	if res := validation.Login(login); !res.IsValid {
		handleError(w, r, errors.NewValidationError("login", res.Error))
		return
	}

	available, err := s.AuthService.LoginAvailable(r.Context(), login)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, availabilityResponse{Available: available})
}

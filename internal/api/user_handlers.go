package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
)

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	me, err := s.UserService.Me(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, me)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.UserService.Update(r.Context(), user.ID, req.Login, req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.UserService.Delete(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("account deleted")
	respondNoContent(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.UserService.ChangePassword(r.Context(), user.ID, tokenFromContext(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		handleError(w, r, err)
		return
	}
	respondNoContent(w)
}

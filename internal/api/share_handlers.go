package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/logger"
)

func (s *Server) handleShareDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	link, err := s.ShareService.Share(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, link)
}

// handleGetShared is public: the token is the only credential.
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	deck, err := s.ShareService.GetShared(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleImportShared(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.ShareService.Import(r.Context(), user.ID, chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("shared deck imported: id=%d", deck.ID)
	respondJSON(w, r, http.StatusCreated, deck)
}

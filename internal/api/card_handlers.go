package api

import (
	"net/http"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	page, err := s.pageParams(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.List(r.Context(), user.ID, deckID, page)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.Create(r.Context(), user.ID, deckID, req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := pathID(r, "cardId")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.Update(r.Context(), user.ID, deckID, cardID, req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := pathID(r, "cardId")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.CardService.Delete(r.Context(), user.ID, deckID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondNoContent(w)
}

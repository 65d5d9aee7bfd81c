package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/check-email", s.handleCheckEmail)
		r.Get("/check-login", s.handleCheckLogin)
		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
	})

	r.Get("/share/{token}", s.handleGetShared)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/users/me", s.handleGetMe)
		r.Put("/users/me", s.handleUpdateMe)
		r.Delete("/users/me", s.handleDeleteMe)
		r.Put("/users/me/password", s.handleChangePassword)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Put("/decks/{id}", s.handleUpdateDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Post("/decks/{id}/share", s.handleShareDeck)

		r.Get("/decks/{id}/cards", s.handleListCards)
		r.Post("/decks/{id}/cards", s.handleCreateCard)
		r.Put("/decks/{id}/cards/{cardId}", s.handleUpdateCard)
		r.Delete("/decks/{id}/cards/{cardId}", s.handleDeleteCard)

		r.Post("/share/{token}/import", s.handleImportShared)

		r.Get("/study/{deckId}/cards", s.handleStudyCards)
		r.Post("/study/{deckId}/answer", s.handleStudyAnswer)
	})

	return r
}

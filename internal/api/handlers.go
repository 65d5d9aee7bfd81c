package api

import (
	"context"

	"github.com/vytor/flashdeck/internal/services"
)

// HealthChecker reports whether the storage layer can serve requests.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

type Server struct {
	AuthService  services.AuthService
	UserService  services.UserService
	DeckService  services.DeckService
	CardService  services.CardService
	ShareService services.ShareService
	StudyService services.StudyService
	DB           HealthChecker

	CORSOrigins     []string
	DefaultPageSize int
	MaxPageSize     int
}

// Request bodies. Field names follow the browser client's JSON.

type registerRequest struct {
	Login           string `json:"login" validate:"fd_login"`
	Email           string `json:"email" validate:"fd_email"`
	Password        string `json:"password" validate:"fd_password"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=Password"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Login string `json:"login" validate:"fd_login"`
	Email string `json:"email" validate:"fd_email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"fd_password"`
}

type deckRequest struct {
	Name        string `json:"name" validate:"fd_deck_name"`
	Description string `json:"description" validate:"fd_deck_description"`
}

type cardRequest struct {
	Question string `json:"question" validate:"fd_card_question"`
	Answer   string `json:"answer" validate:"fd_card_answer"`
}

type answerRequest struct {
	CardID     int64 `json:"cardId" validate:"gt=0"`
	Remembered bool  `json:"remembered"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

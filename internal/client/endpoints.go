package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/validation"
)

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterRequest struct {
	Login           string `json:"login"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

type UpdateUserRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type DeckInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CardInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type availability struct {
	Available bool `json:"available"`
}

func checkForm(f *validation.Form) error {
	if f.Valid() {
		return nil
	}
	return &ValidationError{Errors: f.Errors()}
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}

func deckPath(deckID int64) string { return fmt.Sprintf("/decks/%d", deckID) }

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	confirm := in.ConfirmPassword
	if confirm == "" {
		confirm = in.Password
	}
	if err := checkForm(validation.ValidateRegistration(in.Login, in.Email, in.Password, confirm)); err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(out.Token); err != nil {
		return nil, HandleAPIError(fmt.Errorf("store token: %w", err))
	}
	return &out, nil
}

// Login accepts a login or an email and stores the returned token.
func (c *Client) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	f := validation.NewForm()
	if login == "" {
		f.Check("login", validation.Result{Error: validation.MsgLoginRequired})
	}
	if password == "" {
		f.Check("password", validation.Result{Error: validation.MsgPasswordRequired})
	}
	if err := checkForm(f); err != nil {
		return nil, err
	}

	var out AuthResponse
	body := map[string]string{"login": login, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(out.Token); err != nil {
		return nil, HandleAPIError(fmt.Errorf("store token: %w", err))
	}
	return &out, nil
}

// Logout revokes the session on the server and always forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		return HandleAPIError(fmt.Errorf("clear token: %w", clearErr))
	}
	return err
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out availability
	q := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, "/auth/check-email", q, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) CheckLogin(ctx context.Context, login string) (bool, error) {
	var out availability
	q := url.Values{"login": {login}}
	if err := c.do(ctx, http.MethodGet, "/auth/check-login", q, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, in UpdateUserRequest) (*models.User, error) {
	f := validation.NewForm().
		Check("login", validation.Login(in.Login)).
		Check("email", validation.Email(in.Email))
	if err := checkForm(f); err != nil {
		return nil, err
	}

	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/me", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMe removes the account and forgets the local token.
func (c *Client) DeleteMe(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/users/me", nil, nil, nil); err != nil {
		return err
	}
	if err := c.tokens.Clear(); err != nil {
		return HandleAPIError(fmt.Errorf("clear token: %w", err))
	}
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	f := validation.NewForm().Check("newPassword", validation.Password(next))
	if current == "" {
		f.Check("currentPassword", validation.Result{Error: validation.MsgPasswordRequired})
	}
	if err := checkForm(f); err != nil {
		return err
	}

	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/users/me/password", nil, body, nil)
}

func (c *Client) ListDecks(ctx context.Context, page, size int) (*models.Page[models.Deck], error) {
	var out models.Page[models.Deck]
	if err := c.do(ctx, http.MethodGet, "/decks", pageQuery(page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDeck(ctx context.Context, in DeckInput) (*models.Deck, error) {
	if err := checkForm(validation.ValidateDeck(in.Name, in.Description)); err != nil {
		return nil, err
	}

	var out models.Deck
	if err := c.do(ctx, http.MethodPost, "/decks", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDeck(ctx context.Context, deckID int64) (*models.Deck, error) {
	var out models.Deck
	if err := c.do(ctx, http.MethodGet, deckPath(deckID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDeck(ctx context.Context, deckID int64, in DeckInput) (*models.Deck, error) {
	if err := checkForm(validation.ValidateDeck(in.Name, in.Description)); err != nil {
		return nil, err
	}

	var out models.Deck
	if err := c.do(ctx, http.MethodPut, deckPath(deckID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDeck(ctx context.Context, deckID int64) error {
	return c.do(ctx, http.MethodDelete, deckPath(deckID), nil, nil, nil)
}

func (c *Client) ShareDeck(ctx context.Context, deckID int64) (*models.ShareLink, error) {
	var out models.ShareLink
	if err := c.do(ctx, http.MethodPost, deckPath(deckID)+"/share", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSharedDeck(ctx context.Context, token string) (*models.DeckWithCards, error) {
	var out models.DeckWithCards
	if err := c.do(ctx, http.MethodGet, "/share/"+url.PathEscape(token), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ImportSharedDeck(ctx context.Context, token string) (*models.Deck, error) {
	var out models.Deck
	if err := c.do(ctx, http.MethodPost, "/share/"+url.PathEscape(token)+"/import", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCards(ctx context.Context, deckID int64, page, size int) (*models.Page[models.Card], error) {
	var out models.Page[models.Card]
	if err := c.do(ctx, http.MethodGet, deckPath(deckID)+"/cards", pageQuery(page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCard(ctx context.Context, deckID int64, in CardInput) (*models.Card, error) {
	if err := checkForm(validation.ValidateCard(in.Question, in.Answer)); err != nil {
		return nil, err
	}

	var out models.Card
	if err := c.do(ctx, http.MethodPost, deckPath(deckID)+"/cards", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCard(ctx context.Context, deckID, cardID int64, in CardInput) (*models.Card, error) {
	if err := checkForm(validation.ValidateCard(in.Question, in.Answer)); err != nil {
		return nil, err
	}

	var out models.Card
	path := fmt.Sprintf("%s/cards/%d", deckPath(deckID), cardID)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCard(ctx context.Context, deckID, cardID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/cards/%d", deckPath(deckID), cardID), nil, nil, nil)
}

func (c *Client) StudyCards(ctx context.Context, deckID int64) ([]models.StudyCard, error) {
	var out []models.StudyCard
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/study/%d/cards", deckID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, deckID, cardID int64, remembered bool) (*models.AnswerResult, error) {
	var out models.AnswerResult
	body := map[string]any{"cardId": cardID, "remembered": remembered}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/study/%d/answer", deckID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

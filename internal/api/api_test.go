package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"golang.org/x/crypto/bcrypt"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

type pinger struct{ db *sql.DB }

func (p pinger) Healthy(ctx context.Context) error { return p.db.PingContext(ctx) }

type APISuite struct {
	suite.Suite
	db    *sql.DB
	queue *mocks.MockJobQueue
	srv   *httptest.Server
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.queue = new(mocks.MockJobQueue)
	s.queue.On("EnqueueRecalculate", mock.Anything).Return(nil)

	users := sqlite.NewUserRepository(s.db)
	sessions := sqlite.NewSessionRepository(s.db)
	decks := sqlite.NewDeckRepository(s.db)
	cards := sqlite.NewCardRepository(s.db)
	shares := sqlite.NewShareRepository(s.db)
	study := sqlite.NewStudyRepository(s.db)

	server := &api.Server{
		AuthService:     services.NewAuthService(users, sessions, time.Hour, services.WithBcryptCost(bcrypt.MinCost)),
		UserService:     services.NewUserService(users, sessions),
		DeckService:     services.NewDeckService(decks, 2),
		CardService:     services.NewCardService(decks, cards, s.queue, 2),
		ShareService:    services.NewShareService(decks, cards, shares, "https://flashdeck.test", 2),
		StudyService:    services.NewStudyService(decks, cards, study, s.queue),
		DB:              pinger{db: s.db},
		CORSOrigins:     []string{"http://localhost:5173"},
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
	s.srv = httptest.NewServer(server.Routes())
}

func (s *APISuite) TearDownTest() {
	s.srv.Close()
	testutil.MustClose(s.T(), s.db)
}

// do sends a JSON request and decodes the JSON response into out when non-nil.
func (s *APISuite) do(method, path, token string, body any, out any) *http.Response {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, rdr)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type errorBody struct {
	Status  int               `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	} `json:"user"`
}

type deckBody struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CardsCount     int    `json:"cardsCount"`
	LearnedPercent int    `json:"learnedPercent"`
}

func (s *APISuite) register(login string) string {
	var res authBody
	resp := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"login":    login,
		"email":    login + "@example.com",
		"password": "Password1!",
	}, &res)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Require().NotEmpty(res.Token)
	return res.Token
}

func (s *APISuite) createDeck(token, name string) deckBody {
	var deck deckBody
	resp := s.do(http.MethodPost, "/decks", token, map[string]string{"name": name}, &deck)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return deck
}

func (s *APISuite) TestHealth() {
	resp := s.do(http.MethodGet, "/healthz", "", nil, nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/readyz", "", nil, nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestRegisterLoginLogout() {
	token := s.register("alice")

	var me struct {
		Login      string `json:"login"`
		DecksCount int    `json:"decksCount"`
	}
	resp := s.do(http.MethodGet, "/users/me", token, nil, &me)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("alice", me.Login)

	var login authBody
	resp = s.do(http.MethodPost, "/auth/login", "", map[string]string{"login": "alice@example.com", "password": "Password1!"}, &login)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().NotEqual(token, login.Token)

	resp = s.do(http.MethodPost, "/auth/logout", login.Token, nil, nil)
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)

	var errBody errorBody
	resp = s.do(http.MethodGet, "/users/me", login.Token, nil, &errBody)
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Assert().Equal(http.StatusUnauthorized, errBody.Status)

	// The first session is untouched.
	resp = s.do(http.MethodGet, "/users/me", token, nil, nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestRegisterValidationAndConflict() {
	var errBody errorBody
	resp := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"login":    "ab",
		"email":    "bad",
		"password": "password1!",
	}, &errBody)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Equal("VALIDATION_ERROR", errBody.Code)
	s.Assert().Equal("Логин должен содержать минимум 3 символа", errBody.Errors["login"])
	s.Assert().Contains(errBody.Errors, "email")
	s.Assert().Contains(errBody.Errors, "password")

	s.register("alice")
	errBody = errorBody{}
	resp = s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"login":    "alice",
		"email":    "other@example.com",
		"password": "Password1!",
	}, &errBody)
	s.Assert().Equal(http.StatusConflict, resp.StatusCode)
	s.Assert().Equal("LOGIN_TAKEN", errBody.Code)
}

func (s *APISuite) TestCheckAvailability() {
	s.register("alice")

	var out struct {
		Available bool `json:"available"`
	}
	resp := s.do(http.MethodGet, "/auth/check-login?login=alice", "", nil, &out)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().False(out.Available)

	resp = s.do(http.MethodGet, "/auth/check-email?email=free@example.com", "", nil, &out)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().True(out.Available)
}

func (s *APISuite) TestUnauthorized() {
	var errBody errorBody
	resp := s.do(http.MethodGet, "/decks", "", nil, &errBody)
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Assert().Equal("UNAUTHORIZED", errBody.Code)

	resp = s.do(http.MethodGet, "/decks", "not-a-token", nil, nil)
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APISuite) TestDeckLifecycle() {
	token := s.register("alice")
	deck := s.createDeck(token, "Испанский")

	var page struct {
		Content       []deckBody `json:"content"`
		Page          int        `json:"page"`
		Size          int        `json:"size"`
		TotalElements int        `json:"totalElements"`
		TotalPages    int        `json:"totalPages"`
	}
	resp := s.do(http.MethodGet, "/decks?page=0&size=10", token, nil, &page)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Len(page.Content, 1)
	s.Assert().Equal(10, page.Size)
	s.Assert().Equal(1, page.TotalElements)
	s.Assert().Equal(1, page.TotalPages)

	var updated deckBody
	resp = s.do(http.MethodPut, "/decks/"+itoa(deck.ID), token, map[string]string{"name": "Spanish", "description": "d"}, &updated)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("Spanish", updated.Name)

	var errBody errorBody
	resp = s.do(http.MethodPost, "/decks", token, map[string]string{"name": "Spanish"}, &errBody)
	s.Assert().Equal(http.StatusConflict, resp.StatusCode)
	s.Assert().Equal("DECK_EXISTS", errBody.Code)

	resp = s.do(http.MethodDelete, "/decks/"+itoa(deck.ID), token, nil, nil)
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)

	errBody = errorBody{}
	resp = s.do(http.MethodGet, "/decks/"+itoa(deck.ID), token, nil, &errBody)
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
	s.Assert().Equal("Колода не найдена", errBody.Message)
}

func (s *APISuite) TestDeckLimitAndOwnership() {
	alice := s.register("alice")
	bob := s.register("bobby")
	deck := s.createDeck(alice, "one")
	s.createDeck(alice, "two")

	var errBody errorBody
	resp := s.do(http.MethodPost, "/decks", alice, map[string]string{"name": "three"}, &errBody)
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.Assert().Equal("DECK_LIMIT", errBody.Code)

	resp = s.do(http.MethodGet, "/decks/"+itoa(deck.ID), bob, nil, nil)
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do(http.MethodGet, "/decks/abc", alice, nil, nil)
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APISuite) TestCardsAndStudy() {
	token := s.register("alice")
	deck := s.createDeck(token, "Deck")
	base := "/decks/" + itoa(deck.ID) + "/cards"

	var card struct {
		ID       int64  `json:"id"`
		Position int    `json:"position"`
		Question string `json:"question"`
	}
	resp := s.do(http.MethodPost, base, token, map[string]string{"question": "uno", "answer": "one"}, &card)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Assert().Equal(1, card.Position)
	resp = s.do(http.MethodPost, base, token, map[string]string{"question": "dos", "answer": "two"}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var errBody errorBody
	resp = s.do(http.MethodPost, base, token, map[string]string{"question": "tres", "answer": "three"}, &errBody)
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.Assert().Equal("CARD_LIMIT", errBody.Code)

	errBody = errorBody{}
	resp = s.do(http.MethodPut, base+"/"+itoa(card.ID), token, map[string]string{"question": " ", "answer": "one"}, &errBody)
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Equal("Введите вопрос", errBody.Errors["question"])

	var studyCards []struct {
		ID       int64  `json:"id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	resp = s.do(http.MethodGet, "/study/"+itoa(deck.ID)+"/cards", token, nil, &studyCards)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(studyCards, 2)
	s.Assert().Equal("uno", studyCards[0].Question)

	var ack struct {
		CardID     int64 `json:"cardId"`
		Remembered bool  `json:"remembered"`
	}
	resp = s.do(http.MethodPost, "/study/"+itoa(deck.ID)+"/answer", token, map[string]any{"cardId": card.ID, "remembered": true}, &ack)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal(card.ID, ack.CardID)
	s.Assert().True(ack.Remembered)
	s.queue.AssertCalled(s.T(), "EnqueueRecalculate", deck.ID)

	resp = s.do(http.MethodDelete, base+"/999", token, nil, nil)
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestShareAndImport() {
	alice := s.register("alice")
	bob := s.register("bobby")
	deck := s.createDeck(alice, "Shared")
	s.do(http.MethodPost, "/decks/"+itoa(deck.ID)+"/cards", alice, map[string]string{"question": "q", "answer": "a"}, nil)

	var link struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	resp := s.do(http.MethodPost, "/decks/"+itoa(deck.ID)+"/share", alice, nil, &link)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("https://flashdeck.test/share/"+link.Token, link.URL)

	var again struct {
		Token string `json:"token"`
	}
	s.do(http.MethodPost, "/decks/"+itoa(deck.ID)+"/share", alice, nil, &again)
	s.Assert().Equal(link.Token, again.Token, "sharing twice should reuse the token")

	var shared struct {
		Name  string `json:"name"`
		Cards []struct {
			Question string `json:"question"`
		} `json:"cards"`
	}
	resp = s.do(http.MethodGet, "/share/"+link.Token, "", nil, &shared)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("Shared", shared.Name)
	s.Assert().Len(shared.Cards, 1)

	var imported deckBody
	resp = s.do(http.MethodPost, "/share/"+link.Token+"/import", bob, nil, &imported)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Assert().NotEqual(deck.ID, imported.ID)
	s.Assert().Equal(1, imported.CardsCount)

	var errBody errorBody
	resp = s.do(http.MethodPost, "/share/"+link.Token+"/import", bob, nil, &errBody)
	s.Assert().Equal(http.StatusConflict, resp.StatusCode)
	s.Assert().Equal("DECK_EXISTS", errBody.Code)

	resp = s.do(http.MethodGet, "/share/unknown", "", nil, nil)
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestChangePassword() {
	token := s.register("alice")

	var errBody errorBody
	resp := s.do(http.MethodPut, "/users/me/password", token, map[string]string{
		"currentPassword": "Wrong1!pass",
		"newPassword":     "Newpass1!",
	}, &errBody)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Equal("Неверный текущий пароль", errBody.Errors["currentPassword"])

	resp = s.do(http.MethodPut, "/users/me/password", token, map[string]string{
		"currentPassword": "Password1!",
		"newPassword":     "Newpass1!",
	}, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodPost, "/auth/login", "", map[string]string{"login": "alice", "password": "Newpass1!"}, nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestDeleteAccount() {
	token := s.register("alice")
	s.createDeck(token, "Deck")

	resp := s.do(http.MethodDelete, "/users/me", token, nil, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/decks", token, nil, nil)
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APISuite) TestMalformedJSON() {
	token := s.register("alice")

	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/decks", bytes.NewBufferString("{"))
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Assert().Equal("application/json", resp.Header.Get("Content-Type"))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

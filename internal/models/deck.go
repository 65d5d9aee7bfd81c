package models

import "time"

type Deck struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CardsCount     int       `json:"cardsCount"`
	LearnedPercent int       `json:"learnedPercent"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deckId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeckWithCards is what a share link exposes.
type DeckWithCards struct {
	Deck
	Cards []Card `json:"cards"`
}

type ShareLink struct {
	DeckID    int64     `json:"deckId"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

package models

import "time"

// StudyCard is the card shape served to a study session.
type StudyCard struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type StudyAnswer struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	DeckID     int64     `json:"deckId"`
	CardID     int64     `json:"cardId"`
	Remembered bool      `json:"remembered"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// AnswerResult acknowledges a recorded answer.
type AnswerResult struct {
	DeckID     int64 `json:"deckId"`
	CardID     int64 `json:"cardId"`
	Remembered bool  `json:"remembered"`
}

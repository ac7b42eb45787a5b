package model

import (
	"time"

	"github.com/google/uuid"
)

// ExampleDialog is one scripted exchange used to prime a character.
type ExampleDialog struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// CardData holds the long-form definition of a character.
type CardData struct {
	Description    string          `json:"description"`
	Personality    string          `json:"personality"`
	Scenario       string          `json:"scenario"`
	ExampleDialogs []ExampleDialog `json:"exampleDialogs"`
}

// CharacterCard is a character published on the platform.
type CharacterCard struct {
	ID                   uuid.UUID `json:"id"`
	CreatorID            uuid.UUID `json:"creatorId"`
	CreatorUsername      string    `json:"creatorUsername"`
	Name                 string    `json:"name"`
	ShortDescription     string    `json:"shortDescription"`
	GreetingMessage      string    `json:"greetingMessage"`
	IsPublic             bool      `json:"isPublic"`
	LikesCount           int       `json:"likesCount"`
	TTSVoiceID           string    `json:"ttsVoiceId,omitempty"`
	CardData             CardData  `json:"cardData"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	IsLikedByCurrentUser bool      `json:"isLikedByCurrentUser"`
}

// CardInput is the request body for creating or updating a card.
type CardInput struct {
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	GreetingMessage  string   `json:"greetingMessage"`
	IsPublic         bool     `json:"isPublic"`
	TTSVoiceID       string   `json:"ttsVoiceId,omitempty"`
	CardData         CardData `json:"cardData"`
}

// LikeResult reports the like state of a card or comment after a toggle.
type LikeResult struct {
	IsLiked    bool `json:"isLiked"`
	LikesCount int  `json:"likesCount"`
}

// CursorPage is a page of results addressed by an opaque cursor.
type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor"`
	HasNext    bool   `json:"hasNext"`
}

// Page is an offset-paginated page of results.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	Last          bool `json:"last"`
}

// Voice is a selectable text-to-speech voice.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Language    string `json:"language"`
}

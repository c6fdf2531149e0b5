package model

import "time"

// Question is sent to the Q&A backend.
type Question struct {
	Text        string   `json:"text"`
	DocumentIDs []string `json:"documentIds,omitempty"`
}

// Source is a document excerpt the answer was grounded on.
type Source struct {
	DocumentID     string  `json:"documentId"`
	DocumentTitle  string  `json:"documentTitle"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Answer is the Q&A backend's reply to a Question.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// QAEntry is one asked question inside a QASession.
type QAEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Answer    Answer    `json:"answer"`
}

// QASession groups a user's question history.
type QASession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Questions []QAEntry `json:"questions"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

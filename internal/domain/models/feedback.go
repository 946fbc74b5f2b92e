package models

import "time"

// FeedbackStatus tracks whether a feedback entry has been reviewed.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "PENDING"
	FeedbackResolved FeedbackStatus = "RESOLVED"
)

// Valid reports whether s is one of the known statuses.
func (s FeedbackStatus) Valid() bool {
	return s == FeedbackPending || s == FeedbackResolved
}

// Feedback links a user and a chat to a thumbs-up/down sentiment.
// At most one feedback per (user, chat) pair.
type Feedback struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	ChatID     string         `json:"chat_id"`
	IsPositive bool           `json:"is_positive"`
	Status     FeedbackStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

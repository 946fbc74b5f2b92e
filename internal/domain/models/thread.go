package models

import "time"

// Thread groups an ordered sequence of question/answer pairs for one user.
// UpdatedAt is bumped every time a chat is added, which is what keeps a
// thread "active" for the inactivity-window reuse rule.
type Thread struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

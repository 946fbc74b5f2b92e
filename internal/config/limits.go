package config

import "time"

const (
	// MaxQuestionLength is the maximum length for a user message. Long
	// prompts are rejected up front rather than forwarded to the provider.
	MaxQuestionLength = 2000

	// ContextWindowSize is the number of most recent exchanges included as
	// conversation history in a completion request.
	ContextWindowSize = 10

	// ThreadInactivityWindow is how long a thread stays "active" after its
	// last chat. Within the window new messages without an explicit thread
	// reuse it; past the window a new thread is created.
	ThreadInactivityWindow = 30 * time.Minute

	// MaxNameLength bounds the display name at signup, matching the
	// VARCHAR(50) column.
	MaxNameLength = 50

	// MaxEmailLength matches the VARCHAR(100) column.
	MaxEmailLength = 100
)

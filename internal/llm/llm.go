// Package llm abstracts the hosted chat-completions API behind a narrow
// interface so the interactive loop can be tested with a stub.
package llm

import (
	"context"
	"errors"

	"github.com/wethinkt/go-askgpt/internal/session"
)

// Completer requests an assistant reply for a conversation.
type Completer interface {
	// Complete sends the conversation and returns the assistant's reply.
	Complete(ctx context.Context, model string, messages []session.Message) (string, error)
}

// ErrNoAPIKey reports a missing API-key environment variable. It is a
// configuration error and is surfaced before any session operation runs.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

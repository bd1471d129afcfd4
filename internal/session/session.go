// Package session provides the on-disk session store: named conversations
// persisted as one JSON file per session under the active workspace.
package session

import (
	"encoding/json"
	"errors"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Messages are append-only
// and never reordered.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is a named conversation. Model is the session's pinned model;
// once set it insulates the session from later global-default changes.
type Session struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// DefaultSystemPrompt seeds every newly created session.
const DefaultSystemPrompt = "You are a helpful assistant."

// MasterSessionName is the session auto-created when an operation needs a
// current session and none is set.
const MasterSessionName = "master_session"

var (
	// ErrNotFound reports an operation on a session that does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExists reports creation of a session whose name is taken.
	ErrExists = errors.New("session already exists")
)

// UnmarshalJSON accepts both the current object format and the legacy
// bare-array format (a plain list of messages with no model field).
func (s *Session) UnmarshalJSON(data []byte) error {
	type alias Session
	var full alias
	if err := json.Unmarshal(data, &full); err == nil {
		*s = Session(full)
		return nil
	}

	var legacy []Message
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	s.Model = ""
	s.Messages = legacy
	return nil
}

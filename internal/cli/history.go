// Package cli provides CLI output formatting for sessions.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-askgpt/internal/session"
)

var (
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	gptLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// HistoryFormatter renders a conversation in the [GPT]/[USER] display
// format. System messages are filtered out.
type HistoryFormatter struct {
	w     io.Writer
	color bool
}

// NewHistoryFormatter creates a history formatter. color enables styled
// labels; plain output is byte-stable for piping and tests.
func NewHistoryFormatter(w io.Writer, color bool) *HistoryFormatter {
	return &HistoryFormatter{w: w, color: color}
}

// Format writes the messages in display order. Only user and assistant
// turns are shown, labeled [USER] and [GPT].
func (f *HistoryFormatter) Format(messages []session.Message) error {
	for _, msg := range messages {
		var label string
		switch msg.Role {
		case session.RoleUser:
			label = f.label("[USER]", userLabelStyle)
		case session.RoleAssistant:
			label = f.label("[GPT]", gptLabelStyle)
		default:
			continue
		}
		if _, err := fmt.Fprintf(f.w, "%s\n%s\n", label, strings.TrimSpace(msg.Content)); err != nil {
			return err
		}
	}
	return nil
}

func (f *HistoryFormatter) label(text string, style lipgloss.Style) string {
	if !f.color {
		return text
	}
	return style.Render(text)
}

// WriteJSON writes v as indented JSON, used for the raw session dumps.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

package cli

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders an assistant reply as terminal markdown. On any
// renderer failure the raw text is returned unchanged, so replies are
// never lost to styling problems.
func RenderMarkdown(text string, width int) string {
	if width < 20 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

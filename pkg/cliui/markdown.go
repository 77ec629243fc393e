package cliui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// The chat TUI re-renders the whole transcript on every resize and reply.
// Building a glamour renderer loads its style sheet, so one is kept per wrap
// width.
var (
	renderMu  sync.Mutex
	renderers = map[int]*glamour.TermRenderer{}
)

// RenderMarkdown renders markdown for the terminal, wrapping at width
// columns (80 when width is not positive). On failure the input comes back
// unchanged together with the error.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = defaultWrap
	}

	renderMu.Lock()
	defer renderMu.Unlock()

	r, ok := renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content, fmt.Errorf("building markdown renderer: %w", err)
		}
		renderers[width] = r
	}

	out, err := r.Render(content)
	if err != nil {
		return content, fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

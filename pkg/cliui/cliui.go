// Package cliui holds the terminal styling shared by the apibot commands: a
// spinner for requests in flight and glamour markdown rendering.
package cliui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Same frames as bubbles' spinner.Dot, which the chat TUI uses.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const frameInterval = 80 * time.Millisecond

// Await shows a spinner labelled label on w while fn runs. When fn returns,
// the spinner line is replaced by a mark chosen from fn's result and the
// elapsed time.
func Await(w io.Writer, label string, fn func() bool) bool {
	stop := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		t := time.NewTicker(frameInterval)
		defer t.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(w, "\r  %s %s", spinnerStyle.Render(spinnerFrames[i%len(spinnerFrames)]), label)
			select {
			case <-stop:
				return
			case <-t.C:
			}
		}
	}()

	start := time.Now()
	ok := fn()
	close(stop)
	<-stopped

	mark := SuccessMark
	if !ok {
		mark = FailMark
	}
	fmt.Fprintf(w, "\r  %s %s %s\n", mark, label, elapsedStyle.Render("("+Elapsed(time.Since(start))+")"))
	return ok
}

// Elapsed formats d as whole milliseconds under a second, tenths of a
// second above.
func Elapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

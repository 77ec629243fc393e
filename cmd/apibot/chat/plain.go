package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/apibot/pkg/cliui"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/updates"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

const (
	exitCommand    = "/exit"
	updatesCommand = "/updates"
)

// runPlain is the line-oriented chat loop used when stdin is not a terminal.
func runPlain(ctx context.Context, opts chatOptions, in io.Reader, out io.Writer) error {
	for _, turn := range opts.conversation.Recent(opts.displayLimit()) {
		fmt.Fprintf(out, "%s%s\n", assistantPrompt, turn.Content)
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /updates <keyword> searches the update notes, /exit or Ctrl+D quits."))

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == exitCommand:
			fmt.Fprintln(out)
			return nil
		case input == updatesCommand || strings.HasPrefix(input, updatesCommand+" "):
			keyword := strings.TrimSpace(strings.TrimPrefix(input, updatesCommand))
			if keyword == "" {
				fmt.Fprintf(out, "\n%s\n\n", updates.Summary(opts.assets.Notes(opts.notesPath()), opts.config.Updates.Featured))
				continue
			}
			fmt.Fprintf(out, "\n%s\n\n", updates.Search(opts.assets.Notes(opts.notesPath()), keyword))
			continue
		}

		var reply string
		cliui.Await(out, "Searching APIs", func() bool {
			reply, _ = recommender.Exchange(ctx, opts.dispatcher, opts.conversation, input)
			return !recommender.IsUnstable(reply)
		})

		fmt.Fprintf(out, "%s%s\n\n", assistantPrompt, reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(out)
	return nil
}

package updatescmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/updates"
)

const searchLongDesc string = `Search the update notes for a keyword.

Sections are searched in the order Highlights, Notable Changes, Other Changes
and the first note whose key or value contains the keyword (ignoring case)
is printed.

Examples:
  apibot updates search bus
  apibot updates search "short-term forecast"`

const searchShortDesc string = "Search the update notes for a keyword"

func newSearchCmd(cmder *updatesCommander) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			doc := cmder.load()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return writeJSON(out, searchResult(doc, keyword))
			}

			fmt.Fprintln(out, updates.Search(doc, keyword))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the match as JSON")

	return cmd
}

// SearchResult is the JSON form of a lookup.
type SearchResult struct {
	Keyword string         `json:"keyword"`
	Found   bool           `json:"found"`
	Match   *updates.Match `json:"match,omitempty"`
}

func searchResult(doc *updates.Document, keyword string) SearchResult {
	res := SearchResult{Keyword: keyword}
	if m, ok := updates.Find(doc, keyword); ok {
		res.Found = true
		res.Match = &m
	}
	return res
}

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/apibot/pkg/updates"
)

var (
	searchUpdatesToolName    = "search_updates"
	searchUpdatesDescription = "Search the service update notes for a keyword. Returns the first matching note, searching Highlights, Notable Changes and Other Changes in order."
)

// SearchUpdatesInput represents the input arguments for the search_updates tool.
type SearchUpdatesInput struct {
	Keyword string `json:"keyword" jsonschema:"case-insensitive keyword matched against note keys and values"`
}

// SearchUpdatesOutput represents the output of the search_updates tool.
type SearchUpdatesOutput struct {
	Keyword string         `json:"keyword"`
	Found   bool           `json:"found"`
	Match   *updates.Match `json:"match,omitempty"`
	Text    string         `json:"text"`
}

func (s *Server) handleSearchUpdates(_ context.Context, _ *mcp.CallToolRequest, input SearchUpdatesInput) (*mcp.CallToolResult, SearchUpdatesOutput, error) {
	s.config.Logger.Debug("MCP search_updates request", "keyword", input.Keyword)

	output := buildSearchUpdatesOutput(s.config.Notes(), input.Keyword)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: output.Text},
		},
	}, output, nil
}

func buildSearchUpdatesOutput(doc *updates.Document, keyword string) SearchUpdatesOutput {
	output := SearchUpdatesOutput{
		Keyword: keyword,
		Text:    updates.NotFound,
	}

	m, ok := updates.Find(doc, keyword)
	if !ok {
		return output
	}

	output.Found = true
	output.Match = &m
	output.Text = m.String()
	return output
}

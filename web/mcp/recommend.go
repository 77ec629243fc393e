package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	recommendToolName    = "recommend_api"
	recommendDescription = "Recommend public data APIs for a natural-language description of the data you are looking for. Returns the recommender's reply text."
)

// RecommendInput represents the input arguments for the recommend_api tool.
type RecommendInput struct {
	Query string `json:"query" jsonschema:"description of the data you are looking for"`
}

// RecommendOutput represents the output of the recommend_api tool.
type RecommendOutput struct {
	Query string `json:"query"`
	Reply string `json:"reply"`
}

// handleRecommend forwards one query to the recommender. Connection problems
// surface as the localized message in Reply, never as a tool error.
func (s *Server) handleRecommend(ctx context.Context, _ *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, RecommendOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "query is required"},
			},
		}, RecommendOutput{}, nil
	}

	s.config.Logger.Debug("MCP recommend request", "query", query)

	reply := s.config.Dispatcher.Dispatch(ctx, query)
	output := RecommendOutput{
		Query: query,
		Reply: reply,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply},
		},
	}, output, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallTool invokes a tool handler in-process, bypassing the stdio transport.
// It returns the text payload and whether the tool reported an error.
func (s *Server) CallTool(toolName string, params map[string]interface{}) (string, bool, error) {
	ctx := context.Background()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal params: %w", err)
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      toolName,
			Arguments: paramsJSON,
		},
	}

	var result *mcp.CallToolResult
	switch toolName {
	case "info":
		result, err = s.handleInfo(ctx, req)
	case "rank_similar":
		result, err = s.handleRankSimilar(ctx, req)
	case "document_terms":
		result, err = s.handleDocumentTerms(ctx, req)
	case "reload":
		result, err = s.handleReload(ctx, req)
	default:
		return "", false, fmt.Errorf("unknown tool: %s", toolName)
	}
	if err != nil {
		return "", false, err
	}
	if len(result.Content) == 0 {
		return "", result.IsError, nil
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return "", result.IsError, fmt.Errorf("unexpected content type %T", result.Content[0])
	}
	return text.Text, result.IsError, nil
}

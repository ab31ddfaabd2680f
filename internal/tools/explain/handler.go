package explain

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gronnbygg/energykg/internal/tools"
)

// ExplainQueryHandler returns the tool handler function for explain-query
func ExplainQueryHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExplainQuery(ctx, request, deps)
	}
}

func handleExplainQuery(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.Pipeline == nil {
		errMessage := "query pipeline is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args ExplainQueryInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if strings.TrimSpace(args.Question) == "" {
		errMessage := "question parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	result := deps.Pipeline.Explain(ctx, args.Question)
	if !result.Success {
		return mcp.NewToolResultError(result.Response), nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"question": result.Question,
		"intent":   result.Intent,
		"graphql":  result.GraphQL,
		"cypher":   result.Cypher,
	}, "", "  ")
	if err != nil {
		slog.Error("error marshalling explanation", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

package ask

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gronnbygg/energykg/internal/tools"
)

// AskGraphHandler returns the tool handler function for ask-graph
func AskGraphHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAskGraph(ctx, request, deps)
	}
}

func handleAskGraph(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.Pipeline == nil {
		errMessage := "query pipeline is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args AskGraphInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if strings.TrimSpace(args.Question) == "" {
		errMessage := "question parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	result := deps.Pipeline.Process(ctx, args.Question)

	response := result.Response
	if args.Verbose && result.GraphQL != nil {
		var b strings.Builder
		b.WriteString(response)
		fmt.Fprintf(&b, "\n\n---\nGraphQL:\n%s", result.GraphQL.Query)
		if result.Cypher != nil {
			fmt.Fprintf(&b, "\n\nCypher:\n%s", result.Cypher.Cypher)
		}
		response = b.String()
	}

	return mcp.NewToolResultText(response), nil
}

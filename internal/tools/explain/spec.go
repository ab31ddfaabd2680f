package explain

import "github.com/mark3labs/mcp-go/mcp"

type ExplainQueryInput struct {
	Question string `json:"question" jsonschema:"description=Natural language question to translate, in Norwegian or English"`
}

// ExplainQuerySpec returns the tool specification for explain-query
func ExplainQuerySpec() mcp.Tool {
	return mcp.NewTool("explain-query",
		mcp.WithDescription(`
		Shows how a natural language question would be translated, without
		executing anything against the database.

		Returns the extracted intent (intent type, entity class, parameters and
		confidence), the generated GraphQL query and the resolved Cypher query
		as JSON.

		Use this tool to debug unexpected answers from ask-graph, or to inspect
		the Cypher that a question produces before running it.`),
		mcp.WithInputSchema[ExplainQueryInput](),
		mcp.WithTitleAnnotation("Explain Query"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

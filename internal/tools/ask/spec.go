package ask

import "github.com/mark3labs/mcp-go/mcp"

type AskGraphInput struct {
	Question string `json:"question" jsonschema:"description=Natural language question about the building, in Norwegian or English"`
	Verbose  bool   `json:"verbose,omitempty" jsonschema:"default=false,description=Include the generated GraphQL and Cypher queries in the response"`
}

// AskGraphSpec returns the tool specification for ask-graph
func AskGraphSpec() mcp.Tool {
	return mcp.NewTool("ask-graph",
		mcp.WithDescription(`
		Answers natural language questions about a building knowledge graph.

		The graph follows the Brick ontology and covers:
		- Building structure: buildings, floors, rooms and HVAC zones
		- Technical systems: HVAC, electrical and lighting systems with their equipment
		- Sensors and meters: temperature, humidity, CO2, power and energy points
		- Timeseries references for sensor readings

		Questions are translated through a GraphQL intermediate into Cypher and
		executed against the database. Both Norwegian and English work, for example:
		- "Hvilke sensorer er i bygget?"
		- "Hvor mange etasjer har bygningen?"
		- "Show all temperature sensors"

		Use this tool when the user asks about building structure, equipment,
		sensors or energy data in plain language. For raw schema inspection use
		get-schema, and to preview the translation without running it use
		explain-query.`),
		mcp.WithInputSchema[AskGraphInput](),
		mcp.WithTitleAnnotation("Ask Graph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gronnbygg/energykg/internal/tools"
	"github.com/gronnbygg/energykg/internal/tools/ask"
	"github.com/gronnbygg/energykg/internal/tools/explain"
	"github.com/gronnbygg/energykg/internal/tools/schema"
)

type toolCategory int

const (
	queryCategory  toolCategory = 0
	schemaCategory toolCategory = 1
)

type ToolDefinition struct {
	category   toolCategory
	definition server.ServerTool
	readonly   bool
}

// registerTools registers all MCP tools on the server. Every tool is
// read-only; the server never mutates the graph.
func (s *EnergyKGServer) registerTools() {
	deps := &tools.ToolDependencies{
		DBService: s.dbService,
		Pipeline:  s.pipeline,
	}

	toolDefs := s.getAllToolsDefs(deps)
	serverTools := make([]server.ServerTool, 0, len(toolDefs))
	for _, toolDef := range toolDefs {
		serverTools = append(serverTools, toolDef.definition)
	}
	s.MCPServer.AddTools(serverTools...)
}

// getAllToolsDefs returns all available tools with their specs and handlers
func (s *EnergyKGServer) getAllToolsDefs(deps *tools.ToolDependencies) []ToolDefinition {
	return []ToolDefinition{
		{
			category: queryCategory,
			definition: server.ServerTool{
				Tool:    ask.AskGraphSpec(),
				Handler: ask.AskGraphHandler(deps),
			},
			readonly: true,
		},
		{
			category: queryCategory,
			definition: server.ServerTool{
				Tool:    explain.ExplainQuerySpec(),
				Handler: explain.ExplainQueryHandler(deps),
			},
			readonly: true,
		},
		{
			category: schemaCategory,
			definition: server.ServerTool{
				Tool:    schema.GetSchemaSpec(),
				Handler: schema.GetSchemaHandler(deps),
			},
			readonly: true,
		},
	}
}

package server

import (
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/gronnbygg/energykg/internal/config"
	database_mocks "github.com/gronnbygg/energykg/internal/database/mocks"
	"github.com/gronnbygg/energykg/internal/ontology"
	"github.com/gronnbygg/energykg/internal/pipeline"
	"github.com/gronnbygg/energykg/internal/tools"
)

func newTestServer(t *testing.T) *EnergyKGServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	dbService := database_mocks.NewMockService(ctrl)

	ont, err := ontology.Load()
	if err != nil {
		t.Fatalf("Failed to load ontology: %v", err)
	}

	return &EnergyKGServer{
		config:    &config.Config{},
		dbService: dbService,
		pipeline:  pipeline.New(ont, dbService, pipeline.Options{}),
	}
}

func TestAllToolsAreExposed(t *testing.T) {
	s := newTestServer(t)

	deps := &tools.ToolDependencies{
		DBService: s.dbService,
		Pipeline:  s.pipeline,
	}
	toolDefs := s.getAllToolsDefs(deps)

	if len(toolDefs) == 0 {
		t.Fatal("No tools found")
	}

	expectedTools := map[string]bool{
		"ask-graph":     false,
		"explain-query": false,
		"get-schema":    false,
	}

	for _, toolDef := range toolDefs {
		name := toolDef.definition.Tool.Name
		if _, exists := expectedTools[name]; exists {
			expectedTools[name] = true
		}
	}

	for toolName, found := range expectedTools {
		if !found {
			t.Errorf("Expected tool not found: %s", toolName)
		}
	}
}

func TestToolsHaveCorrectStructure(t *testing.T) {
	s := newTestServer(t)

	deps := &tools.ToolDependencies{
		DBService: s.dbService,
		Pipeline:  s.pipeline,
	}

	for _, toolDef := range s.getAllToolsDefs(deps) {
		tool := toolDef.definition.Tool

		if tool.Name == "" {
			t.Error("Tool has empty name")
		}
		if tool.Description == "" {
			t.Errorf("Tool %s has empty description", tool.Name)
		}
		if toolDef.definition.Handler == nil {
			t.Errorf("Tool %s has nil handler", tool.Name)
		}
		if !toolDef.readonly {
			t.Errorf("Tool %s is not marked as readonly", tool.Name)
		}
	}
}

package explain_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gronnbygg/energykg/internal/ontology"
	"github.com/gronnbygg/energykg/internal/pipeline"
	"github.com/gronnbygg/energykg/internal/tools"
	"github.com/gronnbygg/energykg/internal/tools/explain"
)

func newDeps(t *testing.T) *tools.ToolDependencies {
	t.Helper()
	ont, err := ontology.Load()
	if err != nil {
		t.Fatalf("failed to load ontology: %v", err)
	}
	return &tools.ToolDependencies{
		Pipeline: pipeline.New(ont, nil, pipeline.Options{}),
	}
}

func explainRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestExplainQueryHandler(t *testing.T) {
	t.Run("explains translation without database", func(t *testing.T) {
		handler := explain.ExplainQueryHandler(newDeps(t))
		result, err := handler(context.Background(), explainRequest(map[string]interface{}{
			"question": "Vis alle temperatursensorer",
		}))

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Fatal("Expected success result")
		}

		text := result.Content[0].(mcp.TextContent).Text
		for _, want := range []string{"intent", "graphql", "cypher", "MATCH", "brick_Temperature_Sensor"} {
			if !strings.Contains(text, want) {
				t.Errorf("Expected explanation to contain %q, got: %s", want, text)
			}
		}
	})

	t.Run("missing question", func(t *testing.T) {
		handler := explain.ExplainQueryHandler(newDeps(t))
		result, err := handler(context.Background(), explainRequest(map[string]interface{}{}))

		if err != nil {
			t.Errorf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for missing question")
		}
	})

	t.Run("nil pipeline", func(t *testing.T) {
		handler := explain.ExplainQueryHandler(&tools.ToolDependencies{})
		result, err := handler(context.Background(), explainRequest(map[string]interface{}{
			"question": "Vis alle sensorer",
		}))

		if err != nil {
			t.Errorf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for nil pipeline")
		}
	})
}

package schema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/mock/gomock"

	db "github.com/gronnbygg/energykg/internal/database/mocks"
	"github.com/gronnbygg/energykg/internal/tools"
	"github.com/gronnbygg/energykg/internal/tools/schema"
)

func visualizationRecord(nodes []any, relationships []any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"nodes", "relationships"},
		Values: []any{nodes, relationships},
	}
}

func nodePropsRecord(label, property, propType string) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"nodeLabels", "propertyName", "propertyTypes"},
		Values: []any{[]any{label}, property, []any{propType}},
	}
}

func TestGetSchemaHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("returns schema with building context", func(t *testing.T) {
		buildingNode := dbtype.Node{Id: 0, Props: map[string]any{"name": "brick_Building"}}
		floorNode := dbtype.Node{Id: 1, Props: map[string]any{"name": "brick_Floor"}}
		hasPart := dbtype.Relationship{StartId: 0, EndId: 1, Props: map[string]any{"name": "brick_hasPart"}}

		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*neo4j.Record{
				visualizationRecord([]any{buildingNode, floorNode}, []any{hasPart}),
			}, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*neo4j.Record{
				nodePropsRecord("brick_Building", "address", "String"),
				nodePropsRecord("brick_Building", "energy_class", "String"),
				nodePropsRecord("brick_Floor", "level", "Long"),
			}, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		handler := schema.GetSchemaHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Fatal("Expected success result")
		}

		text := result.Content[0].(mcp.TextContent).Text
		for _, want := range []string{
			"# Neo4j Building Knowledge Graph Schema",
			"### brick_Building",
			"`address` (String)",
			"`level` (Long)",
			"(:brick_Building)-[:brick_hasPart]->(:brick_Floor)",
			"(:brick_Floor)<-[:brick_hasPart]-(:brick_Building)",
			"### :brick_hasPart",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("Expected schema to contain %q", want)
			}
		}
	})

	t.Run("empty database", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*neo4j.Record{
				{Keys: []string{"nodeCount"}, Values: []any{int64(0)}},
			}, nil)

		handler := schema.GetSchemaHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Fatal("Expected success result")
		}
		text := result.Content[0].(mcp.TextContent).Text
		if !strings.Contains(text, "contains no data") {
			t.Errorf("Expected empty database message, got: %s", text)
		}
	})

	t.Run("visualization empty but nodes exist", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*neo4j.Record{
				{Keys: []string{"nodeCount"}, Values: []any{int64(42)}},
			}, nil)

		handler := schema.GetSchemaHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result when visualization fails on a populated database")
		}
	})

	t.Run("database query failure", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection failed"))

		handler := schema.GetSchemaHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for database failure")
		}
	})

	t.Run("nil database service", func(t *testing.T) {
		handler := schema.GetSchemaHandler(&tools.ToolDependencies{})
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for nil database service")
		}
	})
}

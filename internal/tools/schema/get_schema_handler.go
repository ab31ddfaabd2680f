package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/gronnbygg/energykg/internal/tools"
)

const (
	// schemaVisualizationQuery retrieves the graph structure (nodes and relationships)
	schemaVisualizationQuery = `CALL db.schema.visualization()`

	// nodePropertiesQuery retrieves node properties with their types
	nodePropertiesQuery = `
		CALL db.schema.nodeTypeProperties()
		YIELD nodeLabels, propertyName, propertyTypes
		RETURN nodeLabels, propertyName, propertyTypes
	`

	// relPropertiesQuery retrieves relationship properties with their types
	relPropertiesQuery = `
		CALL db.schema.relTypeProperties()
		YIELD relType, propertyName, propertyTypes
		RETURN relType, propertyName, propertyTypes
	`
)

// buildingDatabaseContext frames the raw schema for agents working with
// the building knowledge graph.
const buildingDatabaseContext = `# Neo4j Building Knowledge Graph Schema

This is a graph database describing a building and its technical installations,
modelled after the Brick ontology. Node labels and relationship types carry a
brick_ prefix, for example brick_Building, brick_Temperature_Sensor and
brick_hasPart. The graph typically covers:

- **Spatial structure**: buildings, floors, rooms and HVAC zones connected with brick_hasPart
- **Technical systems**: HVAC, electrical and lighting systems whose equipment is linked with brick_hasMember
- **Points**: sensors attached to zones and equipment with brick_hasPoint
- **Energy**: meters connected with brick_isMeteredBy and timeseries references behind brick_hasTimeseries

The schema below shows the current structure of your Neo4j database.

---

`

// GetSchemaHandler returns a handler function for the get-schema tool
func GetSchemaHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetSchema(ctx, deps)
	}
}

// handleGetSchema retrieves Neo4j schema information using native procedures
func handleGetSchema(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	slog.Info("retrieving schema from the database", "database", deps.DBService.GetDatabaseName())

	visualizationRecords, err := deps.DBService.ExecuteReadQuery(ctx, schemaVisualizationQuery, nil)
	if err != nil {
		slog.Error("failed to execute schema visualization query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(visualizationRecords) == 0 {
		// Before declaring database empty, verify with a node count check
		countRecords, countErr := deps.DBService.ExecuteReadQuery(ctx, "MATCH (n) RETURN count(n) as nodeCount", nil)
		if countErr != nil {
			slog.Error("failed to execute node count verification query", "error", countErr)
			return mcp.NewToolResultError(fmt.Sprintf("schema visualization returned no records and verification failed: %v", countErr)), nil
		}
		if len(countRecords) > 0 {
			if nodeCount, ok := countRecords[0].Get("nodeCount"); ok {
				if count, ok := nodeCount.(int64); ok && count > 0 {
					slog.Error("database contains nodes but schema visualization returned empty",
						"nodeCount", count,
						"database", deps.DBService.GetDatabaseName())
					return mcp.NewToolResultError(fmt.Sprintf("Internal error: database '%s' contains %d nodes but schema visualization failed. This may indicate a schema introspection issue.", deps.DBService.GetDatabaseName(), count)), nil
				}
			}
		}
		slog.Info("database is empty, no schema to return", "database", deps.DBService.GetDatabaseName())
		return mcp.NewToolResultText(fmt.Sprintf("The get-schema tool executed successfully; however, since the Neo4j database '%s' contains no data, no schema information was returned.", deps.DBService.GetDatabaseName())), nil
	}

	nodePropsRecords, err := deps.DBService.ExecuteReadQuery(ctx, nodePropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute node properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	relPropsRecords, err := deps.DBService.ExecuteReadQuery(ctx, relPropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute relationship properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	structuredOutput, err := processNativeSchema(visualizationRecords, nodePropsRecords, relPropsRecords)
	if err != nil {
		slog.Error("failed to process get-schema native queries", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	markdown := buildingDatabaseContext + formatSchemaAsMarkdown(structuredOutput)

	slog.Info("returning schema with building energy context", "schema_size", len(markdown))
	return mcp.NewToolResultText(markdown), nil
}

type SchemaItem struct {
	Key   string       `json:"key"`
	Value SchemaDetail `json:"value"`
}

type SchemaDetail struct {
	Type          string                  `json:"type"`
	Properties    map[string]string       `json:"properties,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

type Relationship struct {
	Direction  string            `json:"direction"`
	Labels     []string          `json:"labels"`
	Properties map[string]string `json:"properties,omitempty"`
}

// processNativeSchema combines results from the native Neo4j schema
// procedures into a unified schema format. The visualization procedure
// returns virtual nodes whose label is stored in the "name" property.
func processNativeSchema(visualizationRecords, nodePropsRecords, relPropsRecords []*neo4j.Record) ([]SchemaItem, error) {
	if len(visualizationRecords) == 0 {
		return nil, fmt.Errorf("no visualization records returned")
	}

	visRecord := visualizationRecords[0]
	nodesRaw, ok := visRecord.Get("nodes")
	if !ok {
		return nil, fmt.Errorf("missing 'nodes' in visualization record")
	}
	relationshipsRaw, ok := visRecord.Get("relationships")
	if !ok {
		return nil, fmt.Errorf("missing 'relationships' in visualization record")
	}

	nodesList, ok := nodesRaw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid nodes format in visualization")
	}
	relationshipsList, ok := relationshipsRaw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid relationships format in visualization")
	}

	nodePropMap := propertiesByLabel(nodePropsRecords)
	relPropMap := propertiesByRelType(relPropsRecords)

	// Virtual node IDs to labels, needed to resolve relationship endpoints.
	nodeIDToLabel := make(map[int64]string)
	for _, nodeRaw := range nodesList {
		node, ok := nodeRaw.(dbtype.Node)
		if !ok {
			slog.Warn("skipping node: unexpected type", "type", fmt.Sprintf("%T", nodeRaw))
			continue
		}
		if label, ok := node.Props["name"].(string); ok {
			nodeIDToLabel[node.Id] = label
		} else {
			slog.Warn("skipping node: no name in Props", "props", node.Props)
		}
	}

	nodeRelsMap := make(map[string]map[string]Relationship)
	for _, relRaw := range relationshipsList {
		rel, ok := relRaw.(dbtype.Relationship)
		if !ok {
			slog.Warn("skipping relationship: unexpected type", "type", fmt.Sprintf("%T", relRaw))
			continue
		}
		relType, ok := rel.Props["name"].(string)
		if !ok || relType == "" {
			slog.Warn("skipping relationship: no name in Props", "props", rel.Props)
			continue
		}

		startLabel := nodeIDToLabel[rel.StartId]
		endLabel := nodeIDToLabel[rel.EndId]
		if startLabel == "" || endLabel == "" {
			continue
		}

		if nodeRelsMap[startLabel] == nil {
			nodeRelsMap[startLabel] = make(map[string]Relationship)
		}
		nodeRelsMap[startLabel][relType] = Relationship{
			Direction:  "out",
			Labels:     []string{endLabel},
			Properties: relPropMap[relType],
		}

		if nodeRelsMap[endLabel] == nil {
			nodeRelsMap[endLabel] = make(map[string]Relationship)
		}
		nodeRelsMap[endLabel][relType] = Relationship{
			Direction:  "in",
			Labels:     []string{startLabel},
			Properties: relPropMap[relType],
		}
	}

	result := make([]SchemaItem, 0)
	for _, nodeRaw := range nodesList {
		node, ok := nodeRaw.(dbtype.Node)
		if !ok {
			continue
		}
		nodeName, _ := node.Props["name"].(string)
		if nodeName == "" {
			continue
		}
		result = append(result, SchemaItem{
			Key: nodeName,
			Value: SchemaDetail{
				Type:          "node",
				Properties:    nodePropMap[nodeName],
				Relationships: nodeRelsMap[nodeName],
			},
		})
	}

	relTypesSeen := make(map[string]bool)
	for _, relRaw := range relationshipsList {
		rel, ok := relRaw.(dbtype.Relationship)
		if !ok {
			continue
		}
		relType, _ := rel.Props["name"].(string)
		if relType == "" || relTypesSeen[relType] {
			continue
		}
		relTypesSeen[relType] = true
		result = append(result, SchemaItem{
			Key: relType,
			Value: SchemaDetail{
				Type:       "relationship",
				Properties: relPropMap[relType],
			},
		})
	}

	slog.Info("schema processing complete",
		"totalItems", len(result),
		"relationshipTypes", len(relTypesSeen))
	return result, nil
}

func propertiesByLabel(records []*neo4j.Record) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, record := range records {
		labelsRaw, _ := record.Get("nodeLabels")
		labels, ok := labelsRaw.([]interface{})
		if !ok || len(labels) == 0 {
			continue
		}
		label, ok := labels[0].(string)
		if !ok {
			continue
		}
		if name, typ, ok := propertyNameAndType(record); ok {
			if out[label] == nil {
				out[label] = make(map[string]string)
			}
			out[label][name] = typ
		}
	}
	return out
}

func propertiesByRelType(records []*neo4j.Record) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, record := range records {
		relTypeRaw, _ := record.Get("relType")
		relType, ok := relTypeRaw.(string)
		if !ok {
			continue
		}
		// relTypeProperties reports types as :`brick_hasPart`
		relType = strings.Trim(relType, ":`")
		if name, typ, ok := propertyNameAndType(record); ok {
			if out[relType] == nil {
				out[relType] = make(map[string]string)
			}
			out[relType][name] = typ
		}
	}
	return out
}

func propertyNameAndType(record *neo4j.Record) (string, string, bool) {
	nameRaw, _ := record.Get("propertyName")
	typesRaw, _ := record.Get("propertyTypes")
	name, ok := nameRaw.(string)
	if !ok {
		return "", "", false
	}
	types, ok := typesRaw.([]interface{})
	if !ok || len(types) == 0 {
		return "", "", false
	}
	typ, ok := types[0].(string)
	if !ok {
		return "", "", false
	}
	return name, typ, true
}

// formatSchemaAsMarkdown converts the structured schema to Neo4j documentation markdown format
func formatSchemaAsMarkdown(items []SchemaItem) string {
	var md strings.Builder

	md.WriteString("# Database Schema\n\n")
	md.WriteString("This schema represents the current state of your Neo4j database.\n\n")

	var nodes []SchemaItem
	var relationships []SchemaItem
	for _, item := range items {
		switch item.Value.Type {
		case "node":
			nodes = append(nodes, item)
		case "relationship":
			relationships = append(relationships, item)
		}
	}

	if len(nodes) > 0 {
		md.WriteString("## 1. Node Labels and Properties\n\n")
		for _, node := range nodes {
			md.WriteString(fmt.Sprintf("### %s\n\n", node.Key))
			writeProperties(&md, node.Value.Properties)

			if len(node.Value.Relationships) > 0 {
				md.WriteString("*Relationships:*\n\n")
				for _, relName := range sortedRelNames(node.Value.Relationships) {
					rel := node.Value.Relationships[relName]
					targetLabels := strings.Join(rel.Labels, ", ")
					var pattern string
					if rel.Direction == "out" {
						pattern = fmt.Sprintf("(:%s)-[:%s]->(:%s)", node.Key, relName, targetLabels)
					} else {
						pattern = fmt.Sprintf("(:%s)<-[:%s]-(:%s)", node.Key, relName, targetLabels)
					}
					md.WriteString(fmt.Sprintf("  - `%s`\n", pattern))
				}
				md.WriteString("\n")
			}
		}
	}

	if len(relationships) > 0 {
		md.WriteString("## 2. Relationship Types\n\n")
		for _, rel := range relationships {
			md.WriteString(fmt.Sprintf("### :%s\n\n", rel.Key))
			writeProperties(&md, rel.Value.Properties)
		}
	}

	return md.String()
}

func writeProperties(md *strings.Builder, props map[string]string) {
	if len(props) == 0 {
		return
	}
	md.WriteString("*Properties:*\n\n")
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		md.WriteString(fmt.Sprintf("  - `%s` (%s)\n", name, props[name]))
	}
	md.WriteString("\n")
}

func sortedRelNames(rels map[string]Relationship) []string {
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

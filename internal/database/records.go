package database

import (
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// RecordsToRows converts driver records to plain maps, unwrapping graph
// entities to their property maps so downstream formatting never sees
// driver types.
func RecordsToRows(records []*neo4j.Record) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(record.Keys))
		for _, key := range record.Keys {
			value, _ := record.Get(key)
			row[key] = normalizeValue(value)
		}
		rows = append(rows, row)
	}
	return rows
}

// RecordsToJSON renders records as indented JSON for tool output.
func RecordsToJSON(records []*neo4j.Record) (string, error) {
	data, err := json.MarshalIndent(RecordsToRows(records), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}
	return string(data), nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case dbtype.Node:
		props := make(map[string]any, len(v.Props)+1)
		for key, p := range v.Props {
			props[key] = normalizeValue(p)
		}
		if len(v.Labels) > 0 {
			if _, taken := props["type"]; !taken {
				props["type"] = v.Labels[0]
			}
		}
		return props
	case dbtype.Relationship:
		props := make(map[string]any, len(v.Props)+1)
		for key, p := range v.Props {
			props[key] = normalizeValue(p)
		}
		if _, taken := props["type"]; !taken {
			props["type"] = v.Type
		}
		return props
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

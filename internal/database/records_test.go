package database_test

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gronnbygg/energykg/internal/database"
)

func record(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestRecordsToRowsScalars(t *testing.T) {
	records := []*neo4j.Record{
		record([]string{"type", "count"}, []any{"brick_Building", int64(1)}),
		record([]string{"type", "count"}, []any{"brick_Floor", int64(3)}),
	}

	rows := database.RecordsToRows(records)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"type": "brick_Building", "count": int64(1)}, rows[0])
	assert.Equal(t, map[string]any{"type": "brick_Floor", "count": int64(3)}, rows[1])
}

func TestRecordsToRowsUnwrapsNodes(t *testing.T) {
	node := dbtype.Node{
		ElementId: "4:abc:1",
		Labels:    []string{"brick_Temperature_Sensor"},
		Props:     map[string]any{"id": "sensor-1", "name": "Temp Foyer", "unit": "°C"},
	}
	records := []*neo4j.Record{
		record([]string{"s"}, []any{node}),
	}

	rows := database.RecordsToRows(records)

	require.Len(t, rows, 1)
	got, ok := rows[0]["s"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sensor-1", got["id"])
	assert.Equal(t, "Temp Foyer", got["name"])
	assert.Equal(t, "brick_Temperature_Sensor", got["type"])
}

func TestRecordsToRowsNodeTypeDoesNotOverwriteProperty(t *testing.T) {
	node := dbtype.Node{
		Labels: []string{"brick_AHU"},
		Props:  map[string]any{"id": "ahu-1", "type": "rooftop"},
	}
	records := []*neo4j.Record{record([]string{"eq"}, []any{node})}

	rows := database.RecordsToRows(records)

	got := rows[0]["eq"].(map[string]any)
	assert.Equal(t, "rooftop", got["type"])
}

func TestRecordsToRowsUnwrapsRelationships(t *testing.T) {
	rel := dbtype.Relationship{
		Type:  "brick_feeds",
		Props: map[string]any{"since": "2021"},
	}
	records := []*neo4j.Record{record([]string{"r"}, []any{rel})}

	rows := database.RecordsToRows(records)

	got, ok := rows[0]["r"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "brick_feeds", got["type"])
	assert.Equal(t, "2021", got["since"])
}

func TestRecordsToRowsRelationshipTypeDoesNotOverwriteProperty(t *testing.T) {
	rel := dbtype.Relationship{
		Type:  "brick_feeds",
		Props: map[string]any{"type": "supply"},
	}
	records := []*neo4j.Record{record([]string{"r"}, []any{rel})}

	rows := database.RecordsToRows(records)

	got := rows[0]["r"].(map[string]any)
	assert.Equal(t, "supply", got["type"])
}

func TestRecordsToRowsRecursesCollections(t *testing.T) {
	sensor := dbtype.Node{
		Labels: []string{"brick_CO2_Sensor"},
		Props:  map[string]any{"id": "co2-1", "name": "CO2 Hovedsal"},
	}
	records := []*neo4j.Record{
		record(
			[]string{"zone", "sensors"},
			[]any{
				map[string]any{"id": "zone-1", "name": "Hovedsal"},
				[]any{sensor},
			},
		),
	}

	rows := database.RecordsToRows(records)

	require.Len(t, rows, 1)
	sensors, ok := rows[0]["sensors"].([]any)
	require.True(t, ok)
	require.Len(t, sensors, 1)
	got := sensors[0].(map[string]any)
	assert.Equal(t, "co2-1", got["id"])
	assert.Equal(t, "brick_CO2_Sensor", got["type"])
}

func TestRecordsToRowsEmpty(t *testing.T) {
	assert.Empty(t, database.RecordsToRows(nil))
}

func TestRecordsToJSON(t *testing.T) {
	records := []*neo4j.Record{
		record([]string{"count"}, []any{int64(7)}),
	}

	out, err := database.RecordsToJSON(records)

	require.NoError(t, err)
	assert.Contains(t, out, `"count": 7`)
}

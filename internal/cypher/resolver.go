// Package cypher resolves GraphQL documents against the Brick-style graph
// by translating each top-level query field into a Cypher read query.
package cypher

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gronnbygg/energykg/internal/ontology"
)

// ErrUnresolvedQuery is returned in strict mode when no resolution matches
// the document's root field.
var ErrUnresolvedQuery = errors.New("graphql query could not be resolved to cypher")

// ResolvedQuery is an executable Cypher statement. Fallback marks the
// catch-all node-count query used when nothing else matched.
type ResolvedQuery struct {
	Cypher      string         `json:"cypher"`
	Parameters  map[string]any `json:"parameters"`
	Description string         `json:"description"`
	Fallback    bool           `json:"fallback,omitempty"`
}

// Resolver translates GraphQL to Cypher. With StrictUnresolved set,
// unmatched documents produce ErrUnresolvedQuery instead of the fallback
// count query.
type Resolver struct {
	StrictUnresolved bool

	logger *slog.Logger
}

func NewResolver(strict bool, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{StrictUnresolved: strict, logger: logger}
}

// Resolve picks the Cypher resolution for the document's first root field.
// Arguments are merged from inline literals and variable bindings; filter
// parameters always appear in Parameters, with '' disabling the filter in
// the query's WHERE guards.
func (r *Resolver) Resolve(query string, variables map[string]any) (*ResolvedQuery, error) {
	var resolved *ResolvedQuery
	if field, ok := rootField(query); ok {
		// Variable bindings act as defaults; inline arguments and
		// referenced variables on the root field win.
		args := flattenVariables(variables)
		for name, value := range argValues(field, variables) {
			args[name] = value
		}
		resolved = r.resolveField(field.Name, args)
	} else {
		r.logger.Debug("graphql parse failed, scanning query text", "query", query)
		resolved = r.resolveByText(query, flattenVariables(variables))
	}

	if resolved == nil {
		if r.StrictUnresolved {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedQuery, firstLine(query))
		}
		r.logger.Warn("unresolved graphql query, using node-count fallback", "query", firstLine(query))
		return fallbackQuery(), nil
	}
	return resolved, nil
}

// rootField parses the document and returns the first field of the first
// operation.
func rootField(query string) (*ast.Field, bool) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || len(doc.Operations) == 0 {
		return nil, false
	}
	for _, sel := range doc.Operations[0].SelectionSet {
		if field, ok := sel.(*ast.Field); ok {
			return field, true
		}
	}
	return nil, false
}

// argValues merges the field's inline literal arguments with variable
// references resolved from the bindings.
func argValues(field *ast.Field, variables map[string]any) map[string]string {
	args := make(map[string]string, len(field.Arguments))
	for _, arg := range field.Arguments {
		if arg.Value == nil {
			continue
		}
		if arg.Value.Kind == ast.Variable {
			if v, ok := variables[arg.Value.Raw]; ok && v != nil {
				args[arg.Name] = fmt.Sprintf("%v", v)
			}
			continue
		}
		args[arg.Name] = arg.Value.Raw
	}
	return args
}

func flattenVariables(variables map[string]any) map[string]string {
	flat := make(map[string]string, len(variables))
	for key, value := range variables {
		if value == nil {
			continue
		}
		flat[key] = fmt.Sprintf("%v", value)
	}
	return flat
}

func (r *Resolver) resolveField(name string, args map[string]string) *ResolvedQuery {
	switch name {
	case "building":
		return r.building(args)
	case "buildings":
		return r.buildings()
	case "floor", "floors":
		return r.floors(args)
	case "room", "rooms":
		return r.rooms(args)
	case "zone", "zones":
		return r.zones(args)
	case "system", "systems":
		return r.systems(args)
	case "equipment":
		return r.equipment(args)
	case "sensor", "sensors":
		return r.sensors(args)
	case "meter", "meters":
		return r.meters(args)
	case "timeseries":
		return r.timeseries(args)
	case "sensorCount":
		return r.sensorCount(args)
	case "equipmentCount":
		return r.equipmentCount(args)
	}
	return nil
}

// resolveByText is the last-ditch path for documents the parser rejects.
// Count fields are checked before their list prefixes so "equipmentCount"
// is not mistaken for "equipment".
func (r *Resolver) resolveByText(query string, args map[string]string) *ResolvedQuery {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "sensorcount"):
		return r.sensorCount(args)
	case strings.Contains(q, "equipmentcount"):
		return r.equipmentCount(args)
	case strings.Contains(q, "building(") || strings.Contains(q, "building {"):
		return r.building(args)
	case strings.Contains(q, "buildings"):
		return r.buildings()
	case strings.Contains(q, "floors"):
		return r.floors(args)
	case strings.Contains(q, "rooms"):
		return r.rooms(args)
	case strings.Contains(q, "zones"):
		return r.zones(args)
	case strings.Contains(q, "systems"):
		return r.systems(args)
	case strings.Contains(q, "equipment"):
		return r.equipment(args)
	case strings.Contains(q, "sensors"):
		return r.sensors(args)
	case strings.Contains(q, "timeseries"):
		return r.timeseries(args)
	case strings.Contains(q, "meters"):
		return r.meters(args)
	}
	return nil
}

func (r *Resolver) building(args map[string]string) *ResolvedQuery {
	matches := NewOptionalMatchBuilder()
	matches.AddRelationMatch("b", ontology.RelHasPart, "f", "brick_Floor")
	matches.AddCustomMatch("(b)-[:brick_hasPart]->(sys)\nWHERE NOT sys:brick_Floor")
	matches.AddRelationMatch("b", ontology.RelIsMeteredBy, "m", "")

	floors := NewProjection().Fields("id", "name", "level")
	systems := NewProjection().Fields("id", "name").Expr("type", "labels(sys)[0]")
	meters := NewProjection().Fields("id", "name").Expr("type", "labels(m)[0]").Fields("unit")
	proj := NewProjection().
		Fields("id", "name", "description", "address", "area_sqm", "year_built", "energy_class").
		Expr("floors", floors.CollectDistinct("f")).
		Expr("systems", systems.CollectDistinct("sys")).
		Expr("meters", meters.CollectDistinct("m"))

	cypher := fmt.Sprintf(`MATCH (b:brick_Building)
WHERE %s
%s
RETURN %s
LIMIT 1`, idNameGuard("b"), matches.Build(), proj.Map("b"))

	return &ResolvedQuery{
		Cypher:      cypher,
		Parameters:  idNameParams(args),
		Description: "Get building with related entities",
	}
}

func (r *Resolver) buildings() *ResolvedQuery {
	return &ResolvedQuery{
		Cypher: `MATCH (b:brick_Building)
RETURN b {.id, .name, .address, .area_sqm, .energy_class}`,
		Parameters:  map[string]any{},
		Description: "Get all buildings",
	}
}

func (r *Resolver) floors(args map[string]string) *ResolvedQuery {
	if buildingID := argOr(args, "buildingId", "building_id"); buildingID != "" {
		return &ResolvedQuery{
			Cypher: `MATCH (b:brick_Building {id: $building_id})-[:brick_hasPart]->(f:brick_Floor)
OPTIONAL MATCH (f)-[:brick_hasPart]->(z:brick_HVAC_Zone)
RETURN f {.id, .name, .level, zones: collect(z {.id, .name})}
ORDER BY f.level`,
			Parameters:  map[string]any{"building_id": buildingID},
			Description: "Get floors for building",
		}
	}
	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (f:brick_Floor)
WHERE %s
RETURN f {.id, .name, .level}
ORDER BY f.level`, idNameGuard("f")),
		Parameters:  idNameParams(args),
		Description: "Get all floors",
	}
}

func (r *Resolver) rooms(args map[string]string) *ResolvedQuery {
	if floorID := argOr(args, "floorId", "floor_id"); floorID != "" {
		return &ResolvedQuery{
			Cypher: `MATCH (f:brick_Floor {id: $floor_id})-[:brick_hasPart]->(r:brick_Room)
RETURN r {.id, .name}`,
			Parameters:  map[string]any{"floor_id": floorID},
			Description: "Get rooms for floor",
		}
	}
	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (r:brick_Room)
WHERE %s
RETURN r {.id, .name}`, idNameGuard("r")),
		Parameters:  idNameParams(args),
		Description: "Get all rooms",
	}
}

func (r *Resolver) zones(args map[string]string) *ResolvedQuery {
	sensorProj := NewProjection().Fields("id", "name", "unit").Expr("type", "labels(s)[0]")
	fedByProj := NewProjection().Fields("id", "name").Expr("type", "labels(eq)[0]")

	if floorID := argOr(args, "floorId", "floor_id"); floorID != "" {
		matches := NewOptionalMatchBuilder()
		matches.AddRelationMatch("z", ontology.RelHasPoint, "s", "")
		matches.AddInverseMatch("z", ontology.RelFeeds, "eq", "")

		proj := NewProjection().Fields("id", "name").
			Expr("sensors", sensorProj.CollectDistinct("s")).
			Expr("fedBy", fedByProj.CollectDistinct("eq"))

		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (f:brick_Floor {id: $floor_id})-[:brick_hasPart]->(z:brick_HVAC_Zone)
%s
RETURN %s`, matches.Build(), proj.Map("z")),
			Parameters:  map[string]any{"floor_id": floorID},
			Description: "Get zones for floor",
		}
	}

	if buildingID := argOr(args, "buildingId", "building_id"); buildingID != "" {
		return &ResolvedQuery{
			Cypher: `MATCH (b:brick_Building {id: $building_id})-[:brick_hasPart]->(:brick_Floor)-[:brick_hasPart]->(z:brick_HVAC_Zone)
RETURN z {.id, .name}`,
			Parameters:  map[string]any{"building_id": buildingID},
			Description: "Get zones for building",
		}
	}

	matches := NewOptionalMatchBuilder()
	matches.AddRelationMatch("z", ontology.RelHasPoint, "s", "")
	matches.AddInverseMatch("z", ontology.RelFeeds, "eq", "")

	proj := NewProjection().Fields("id", "name").
		Expr("sensors", sensorProj.CollectDistinct("s")).
		Expr("fedBy", fedByProj.CollectDistinct("eq"))

	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (z:brick_HVAC_Zone)
WHERE %s
%s
RETURN %s`, idNameGuard("z"), matches.Build(), proj.Map("z")),
		Parameters:  idNameParams(args),
		Description: "Get zones with sensors",
	}
}

func (r *Resolver) systems(args map[string]string) *ResolvedQuery {
	labelFilter := ""
	if systemType := argOr(args, "systemType", "system_type"); systemType != "" {
		labelFilter = " AND sys:" + labelFor(systemTypeLabels, systemType)
	}

	if buildingID := argOr(args, "buildingId", "building_id"); buildingID != "" {
		equipProj := NewProjection().Fields("id", "name").Expr("type", "labels(eq)[0]")
		proj := NewProjection().Fields("id", "name").
			Expr("systemType", "labels(sys)[0]").
			Expr("equipment", equipProj.Collect("eq"))

		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (b:brick_Building {id: $building_id})-[:brick_hasPart]->(sys)
WHERE NOT sys:brick_Floor%s
OPTIONAL MATCH (sys)-[:brick_hasMember]->(eq)
RETURN %s`, labelFilter, proj.Map("sys")),
			Parameters:  map[string]any{"building_id": buildingID},
			Description: "Get systems for building",
		}
	}

	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (sys)
WHERE (sys:brick_HVAC_System OR sys:brick_Electrical_System OR sys:brick_Lighting_System)%s AND %s
RETURN sys {.id, .name, systemType: labels(sys)[0]}`, labelFilter, idNameGuard("sys")),
		Parameters:  idNameParams(args),
		Description: "Get all systems",
	}
}

func (r *Resolver) equipment(args map[string]string) *ResolvedQuery {
	labelFilter := ""
	if equipmentType := argOr(args, "equipmentType", "equipment_type"); equipmentType != "" {
		labelFilter = ":" + labelFor(equipmentTypeLabels, equipmentType)
	}

	sensorProj := NewProjection().Fields("id", "name", "unit").Expr("type", "labels(s)[0]")

	if systemID := argOr(args, "systemId", "system_id"); systemID != "" {
		matches := NewOptionalMatchBuilder()
		matches.AddRelationMatch("eq", ontology.RelHasPoint, "s", "")
		matches.AddRelationMatch("eq", ontology.RelFeeds, "z", "brick_HVAC_Zone")

		proj := NewProjection().Fields("id", "name").
			Expr("equipmentType", "labels(eq)[0]").
			Fields("manufacturer", "model", "capacity", "capacity_unit").
			Expr("sensors", sensorProj.CollectDistinct("s")).
			Expr("zones", "collect(DISTINCT z.name)")

		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (sys {id: $system_id})-[:brick_hasMember]->(eq%s)
%s
RETURN %s`, labelFilter, matches.Build(), proj.Map("eq")),
			Parameters:  map[string]any{"system_id": systemID},
			Description: "Get equipment for system",
		}
	}

	// Without a subtype the match is unlabelled and a label disjunction
	// keeps non-equipment nodes out.
	where := idNameGuard("eq")
	if labelFilter == "" {
		where = "(eq:brick_Air_Handling_Unit OR eq:brick_Chiller OR eq:brick_Boiler OR eq:brick_Pump OR eq:brick_Fan) AND " + where
	}

	matches := NewOptionalMatchBuilder()
	matches.AddRelationMatch("eq", ontology.RelHasPoint, "s", "")
	matches.AddRelationMatch("eq", ontology.RelFeeds, "z", "brick_HVAC_Zone")

	proj := NewProjection().Fields("id", "name").
		Expr("equipmentType", "labels(eq)[0]").
		Fields("manufacturer", "model").
		Expr("sensors", sensorProj.CollectDistinct("s")).
		Expr("zones", "collect(DISTINCT z.name)")

	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (eq%s)
WHERE %s
%s
RETURN %s`, labelFilter, where, matches.Build(), proj.Map("eq")),
		Parameters:  idNameParams(args),
		Description: "Get all equipment",
	}
}

func (r *Resolver) sensors(args map[string]string) *ResolvedQuery {
	labelFilter := ""
	if sensorType := argOr(args, "sensorType", "sensor_type"); sensorType != "" {
		labelFilter = ":" + labelFor(sensorTypeLabels, sensorType)
	}

	tsProj := NewProjection().Fields("id", "external_id", "resolution")
	proj := NewProjection().Fields("id", "name", "unit").
		Expr("sensorType", "labels(s)[0]").
		Expr("timeseries", tsProj.Map("ts"))

	if zoneID := argOr(args, "zoneId", "zone_id"); zoneID != "" {
		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (z:brick_HVAC_Zone {id: $zone_id})-[:brick_hasPoint]->(s%s)
OPTIONAL MATCH (s)-[:brick_hasTimeseries]->(ts)
RETURN %s`, labelFilter, proj.Map("s")),
			Parameters:  map[string]any{"zone_id": zoneID},
			Description: "Get sensors for zone",
		}
	}

	if equipmentID := argOr(args, "equipmentId", "equipment_id"); equipmentID != "" {
		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (eq {id: $equipment_id})-[:brick_hasPoint]->(s%s)
OPTIONAL MATCH (s)-[:brick_hasTimeseries]->(ts)
RETURN %s`, labelFilter, proj.Map("s")),
			Parameters:  map[string]any{"equipment_id": equipmentID},
			Description: "Get sensors for equipment",
		}
	}

	where := idNameGuard("s")
	if labelFilter == "" {
		where = "(" + sensorLabelDisjunction("s") + ") AND " + where
	}
	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (s%s)
WHERE %s
OPTIONAL MATCH (s)-[:brick_hasTimeseries]->(ts)
RETURN %s`, labelFilter, where, proj.Map("s")),
		Parameters:  idNameParams(args),
		Description: "Get all sensors",
	}
}

func (r *Resolver) meters(args map[string]string) *ResolvedQuery {
	if buildingID := argOr(args, "buildingId", "building_id"); buildingID != "" {
		sensorProj := NewProjection().Fields("id", "name", "unit")
		proj := NewProjection().Fields("id", "name", "unit").
			Expr("meterType", "labels(m)[0]").
			Expr("sensors", sensorProj.Collect("s"))

		return &ResolvedQuery{
			Cypher: fmt.Sprintf(`MATCH (b:brick_Building {id: $building_id})-[:brick_isMeteredBy]->(m)
OPTIONAL MATCH (m)-[:brick_hasPoint]->(s)
RETURN %s`, proj.Map("m")),
			Parameters:  map[string]any{"building_id": buildingID},
			Description: "Get meters for building",
		}
	}

	labelFilter := ""
	where := idNameGuard("m")
	if meterType := argOr(args, "meterType", "meter_type"); meterType != "" {
		labelFilter = ":" + labelFor(meterTypeLabels, meterType)
	} else {
		where = "(m:brick_Electrical_Meter OR m:brick_Thermal_Energy_Meter OR m:brick_Water_Meter) AND " + where
	}
	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (m%s)
WHERE %s
RETURN m {.id, .name, .unit, meterType: labels(m)[0]}`, labelFilter, where),
		Parameters:  idNameParams(args),
		Description: "Get all meters",
	}
}

func (r *Resolver) timeseries(args map[string]string) *ResolvedQuery {
	if sensorID := argOr(args, "sensorId", "sensor_id"); sensorID != "" {
		return &ResolvedQuery{
			Cypher: `MATCH (s {id: $sensor_id})-[:brick_hasTimeseries]->(ts:brick_Timeseries)
RETURN ts {.id, .external_id, .resolution}`,
			Parameters:  map[string]any{"sensor_id": sensorID},
			Description: "Get timeseries for sensor",
		}
	}
	return &ResolvedQuery{
		Cypher: `MATCH (s)-[:brick_hasTimeseries]->(ts:brick_Timeseries)
RETURN s.name as sensor, ts {.id, .external_id, .resolution}`,
		Parameters:  map[string]any{},
		Description: "Get all timeseries",
	}
}

func (r *Resolver) sensorCount(args map[string]string) *ResolvedQuery {
	if sensorType := argOr(args, "sensorType", "sensor_type"); sensorType != "" {
		label := labelFor(sensorTypeLabels, sensorType)
		return &ResolvedQuery{
			Cypher:      fmt.Sprintf("MATCH (s:%s) RETURN count(s) as count", label),
			Parameters:  map[string]any{},
			Description: fmt.Sprintf("Count %s sensors", sensorType),
		}
	}
	return &ResolvedQuery{
		Cypher: fmt.Sprintf(`MATCH (s)
WHERE %s
RETURN count(s) as count`, sensorLabelDisjunction("s")),
		Parameters:  map[string]any{},
		Description: "Count all sensors",
	}
}

func (r *Resolver) equipmentCount(args map[string]string) *ResolvedQuery {
	if equipmentType := argOr(args, "equipmentType", "equipment_type"); equipmentType != "" {
		label := labelFor(equipmentTypeLabels, equipmentType)
		return &ResolvedQuery{
			Cypher:      fmt.Sprintf("MATCH (eq:%s) RETURN count(eq) as count", label),
			Parameters:  map[string]any{},
			Description: fmt.Sprintf("Count %s equipment", equipmentType),
		}
	}
	return &ResolvedQuery{
		Cypher: `MATCH (eq)
WHERE eq:brick_Air_Handling_Unit OR eq:brick_Chiller OR eq:brick_Boiler OR eq:brick_Pump OR eq:brick_Fan
RETURN count(eq) as count`,
		Parameters:  map[string]any{},
		Description: "Count all equipment",
	}
}

func fallbackQuery() *ResolvedQuery {
	return &ResolvedQuery{
		Cypher:      "MATCH (n) RETURN labels(n)[0] as type, count(*) as count",
		Parameters:  map[string]any{},
		Description: "Node counts by type",
		Fallback:    true,
	}
}

// idNameGuard builds the standard filter guards. An empty parameter
// disables its clause, so both parameters are always bound.
func idNameGuard(varName string) string {
	return fmt.Sprintf("($id = '' OR %s.id = $id) AND ($name = '' OR toLower(%s.name) CONTAINS toLower($name))",
		varName, varName)
}

func idNameParams(args map[string]string) map[string]any {
	return map[string]any{
		"id":   args["id"],
		"name": argOr(args, "name", "building_name"),
	}
}

func sensorLabelDisjunction(varName string) string {
	labels := []string{
		"brick_Temperature_Sensor", "brick_Humidity_Sensor", "brick_CO2_Sensor",
		"brick_Power_Sensor", "brick_Energy_Sensor", "brick_Pressure_Sensor", "brick_Flow_Sensor",
	}
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = varName + ":" + label
	}
	return strings.Join(parts, " OR ")
}

func argOr(args map[string]string, keys ...string) string {
	for _, key := range keys {
		if v, ok := args[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

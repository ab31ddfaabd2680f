// Package graphql emits GraphQL documents from extracted intents. The
// documents target the building-energy schema and are later resolved to
// Cypher, so generation is purely textual and fully deterministic: the same
// intent always produces the same bytes.
package graphql

import (
	"fmt"
	"strings"

	"github.com/gronnbygg/energykg/internal/ontology"
)

// GeneratedQuery is one GraphQL document plus its variable bindings.
type GeneratedQuery struct {
	Query           string         `json:"query"`
	Variables       map[string]any `json:"variables"`
	OperationName   string         `json:"operation"`
	Description     string         `json:"description"`
	RequestedFields []string       `json:"fields"`
}

// Generator maps ontology classes to schema operations.
type Generator struct {
	ont *ontology.Ontology
}

func NewGenerator(ont *ontology.Ontology) *Generator {
	return &Generator{ont: ont}
}

// queryTarget is the schema operation a class resolves to.
type queryTarget struct {
	queryName string
	typeName  string
}

// targetFor reduces the class catalogue to the schema's top-level queries.
// Unknown classes fall back to the building query.
func targetFor(class ontology.EntityClass) queryTarget {
	switch {
	case class == ontology.ClassBuilding:
		return queryTarget{"building", "Building"}
	case class == ontology.ClassFloor:
		return queryTarget{"floors", "Floor"}
	case class == ontology.ClassRoom:
		return queryTarget{"rooms", "Room"}
	case class == ontology.ClassHVACZone:
		return queryTarget{"zones", "HVACZone"}
	case class == ontology.ClassTimeseries:
		return queryTarget{"timeseries", "Timeseries"}
	case class.IsSystem():
		return queryTarget{"systems", "System"}
	case class.IsEquipment():
		return queryTarget{"equipment", "Equipment"}
	case class.IsSensor():
		return queryTarget{"sensors", "Sensor"}
	case class.IsMeter():
		return queryTarget{"meters", "Meter"}
	default:
		return queryTarget{"building", "Building"}
	}
}

// typeFields lists the default selection set per schema type, in output order.
var typeFields = map[string][]string{
	"Building":   {"id", "name", "address", "areaSqm", "yearBuilt", "energyClass"},
	"Floor":      {"id", "name", "level"},
	"Room":       {"id", "name"},
	"HVACZone":   {"id", "name"},
	"System":     {"id", "name", "systemType"},
	"Equipment":  {"id", "name", "equipmentType", "manufacturer", "model"},
	"Sensor":     {"id", "name", "unit", "sensorType"},
	"Meter":      {"id", "name", "meterType", "unit"},
	"Timeseries": {"id", "externalId", "resolution"},
}

// Generate builds the GraphQL document for one intent. Path intents and
// unrecognised kinds degrade to the overview query rather than failing.
func (g *Generator) Generate(kind ontology.IntentKind, class ontology.EntityClass, params map[string]string, requestedFields []string) *GeneratedQuery {
	switch kind {
	case ontology.IntentQueryEntity:
		return g.singleQuery(class, params, requestedFields)
	case ontology.IntentQueryList:
		return g.listQuery(class, params, requestedFields)
	case ontology.IntentQueryTraverse:
		return g.traverseQuery(class, params)
	case ontology.IntentQueryAggregate:
		return g.aggregateQuery(class)
	default:
		return overviewQuery()
	}
}

func (g *Generator) singleQuery(class ontology.EntityClass, params map[string]string, requestedFields []string) *GeneratedQuery {
	if class == "" {
		class = ontology.ClassBuilding
	}
	target := targetFor(class)

	fields := requestedFields
	if len(fields) == 0 {
		fields = defaultFields(target.typeName)
	}

	var args []string
	variables := map[string]any{}
	if id, ok := params["id"]; ok {
		args = append(args, "id: $id")
		variables["id"] = id
	}
	if name, ok := firstParam(params, "name", "building_name"); ok {
		args = append(args, "name: $name")
		variables["name"] = name
	}

	query := fmt.Sprintf(`query Get%s($id: String, $name: String) {
  %s%s {
      %s
  }
}`, target.typeName, singular(target.queryName), argList(args), strings.Join(fields, "\n      "))

	return &GeneratedQuery{
		Query:           query,
		Variables:       variables,
		OperationName:   "Get" + target.typeName,
		Description:     fmt.Sprintf("Get %s by ID or name", target.typeName),
		RequestedFields: fields,
	}
}

func (g *Generator) listQuery(class ontology.EntityClass, params map[string]string, requestedFields []string) *GeneratedQuery {
	if class == "" {
		return &GeneratedQuery{
			Query: `query ListBuildings {
  buildings {
      id
      name
      address
  }
}`,
			Variables:       map[string]any{},
			OperationName:   "ListBuildings",
			Description:     "List all buildings",
			RequestedFields: []string{"id", "name", "address"},
		}
	}
	target := targetFor(class)

	fields := requestedFields
	if len(fields) == 0 {
		fields = defaultFields(target.typeName)
	}

	// Subtype classes become inline filter arguments on the shared query.
	var args []string
	variables := map[string]any{}
	var varDecls []string
	switch {
	case class.IsSensor():
		args = append(args, fmt.Sprintf("sensorType: %q", class.ShortName()))
	case class.IsEquipment():
		args = append(args, fmt.Sprintf("equipmentType: %q", class.ShortName()))
	case class.IsSystem():
		args = append(args, fmt.Sprintf("systemType: %q", strings.TrimSuffix(class.ShortName(), "_System")))
	case class.IsMeter():
		args = append(args, fmt.Sprintf("meterType: %q", strings.TrimSuffix(class.ShortName(), "_Meter")))
	}
	if buildingID, ok := params["building_id"]; ok {
		args = append(args, "buildingId: $buildingId")
		variables["buildingId"] = buildingID
		varDecls = append(varDecls, "$buildingId: String")
	}

	query := fmt.Sprintf(`query List%ss%s {
  %s%s {
      %s
  }
}`, target.typeName, argList(varDecls), plural(target.queryName), argList(args), strings.Join(fields, "\n      "))

	return &GeneratedQuery{
		Query:           query,
		Variables:       variables,
		OperationName:   "List" + target.typeName + "s",
		Description:     fmt.Sprintf("List all %ss", target.typeName),
		RequestedFields: fields,
	}
}

func (g *Generator) traverseQuery(class ontology.EntityClass, params map[string]string) *GeneratedQuery {
	switch {
	case class == ontology.ClassBuilding || paramsMention(params, "building"):
		name, _ := firstParam(params, "name", "building_name")
		return &GeneratedQuery{
			Query: `query BuildingWithDetails($name: String) {
  building(name: $name) {
      id
      name
      address
      areaSqm
      energyClass
      floors {
          id
          name
          level
          zones {
              id
              name
          }
      }
      systems {
          id
          name
          systemType
          equipment {
              id
              name
              equipmentType
          }
      }
      meters {
          id
          name
          meterType
      }
  }
}`,
			Variables:       map[string]any{"name": name},
			OperationName:   "BuildingWithDetails",
			Description:     "Get building with all details",
			RequestedFields: []string{"id", "name", "floors", "systems", "meters"},
		}

	case class == ontology.ClassHVACZone || paramsMention(params, "zone"):
		name, _ := firstParam(params, "zone_name", "name")
		return &GeneratedQuery{
			Query: `query ZoneWithSensors($name: String) {
  zones {
      id
      name
      sensors {
          id
          name
          unit
          sensorType
          timeseries {
              externalId
              resolution
          }
      }
      fedBy {
          id
          name
          equipmentType
      }
  }
}`,
			Variables:       map[string]any{"name": name},
			OperationName:   "ZoneWithSensors",
			Description:     "Get zones with sensors",
			RequestedFields: []string{"id", "name", "sensors", "fedBy"},
		}

	case class == ontology.ClassAHU || paramsMention(params, "ahu") || paramsMention(params, "aggregat"):
		name, _ := firstParam(params, "name", "equipment_name")
		return &GeneratedQuery{
			Query: `query AHUWithZones($name: String) {
  equipment(equipmentType: "Air_Handling_Unit") {
      id
      name
      manufacturer
      model
      sensors {
          id
          name
          unit
          sensorType
      }
  }
}`,
			Variables:       map[string]any{"name": name},
			OperationName:   "AHUWithZones",
			Description:     "Get AHU with zones and sensors",
			RequestedFields: []string{"id", "name", "sensors"},
		}

	case class.IsSensor():
		sensorType := class.ShortName()
		return &GeneratedQuery{
			Query: fmt.Sprintf(`query SensorsWithTimeseries {
  sensors(sensorType: %q) {
      id
      name
      unit
      sensorType
      timeseries {
          id
          externalId
          resolution
      }
  }
}`, sensorType),
			Variables:       map[string]any{},
			OperationName:   "SensorsWithTimeseries",
			Description:     fmt.Sprintf("Get %s sensors with timeseries", sensorType),
			RequestedFields: []string{"id", "name", "unit", "timeseries"},
		}
	}

	return &GeneratedQuery{
		Query: `query AllSensors {
  sensors {
      id
      name
      unit
      sensorType
      timeseries {
          externalId
      }
  }
}`,
		Variables:       map[string]any{},
		OperationName:   "AllSensors",
		Description:     "Get all sensors with timeseries",
		RequestedFields: []string{"id", "name", "unit", "sensorType"},
	}
}

func (g *Generator) aggregateQuery(class ontology.EntityClass) *GeneratedQuery {
	switch {
	case class.IsSensor():
		sensorType := class.ShortName()
		return &GeneratedQuery{
			Query:           fmt.Sprintf("query CountSensors {\n  sensorCount(sensorType: %q)\n}", sensorType),
			Variables:       map[string]any{},
			OperationName:   "CountSensors",
			Description:     fmt.Sprintf("Count %s sensors", sensorType),
			RequestedFields: []string{"count"},
		}
	case class.IsEquipment():
		equipType := class.ShortName()
		return &GeneratedQuery{
			Query:           fmt.Sprintf("query CountEquipment {\n  equipmentCount(equipmentType: %q)\n}", equipType),
			Variables:       map[string]any{},
			OperationName:   "CountEquipment",
			Description:     fmt.Sprintf("Count %s equipment", equipType),
			RequestedFields: []string{"count"},
		}
	case class == ontology.ClassFloor:
		return &GeneratedQuery{
			Query:           "query CountFloors {\n  floors {\n      id\n  }\n}",
			Variables:       map[string]any{},
			OperationName:   "CountFloors",
			Description:     "Count floors",
			RequestedFields: []string{"count"},
		}
	}
	return &GeneratedQuery{
		Query:           "query CountSensors {\n  sensorCount\n}",
		Variables:       map[string]any{},
		OperationName:   "CountSensors",
		Description:     "Count all sensors",
		RequestedFields: []string{"count"},
	}
}

func overviewQuery() *GeneratedQuery {
	return &GeneratedQuery{
		Query: `query Overview {
  buildings {
      id
      name
      address
  }
}`,
		Variables:       map[string]any{},
		OperationName:   "Overview",
		Description:     "Get building overview",
		RequestedFields: []string{"id", "name", "address"},
	}
}

func defaultFields(typeName string) []string {
	if fields, ok := typeFields[typeName]; ok {
		return fields
	}
	return []string{"id", "name"}
}

func firstParam(params map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := params[key]; ok {
			return v, true
		}
	}
	return "", false
}

// paramsMention reports whether any parameter key or value contains the
// fragment. Map order does not matter for an existence check.
func paramsMention(params map[string]string, fragment string) bool {
	for key, value := range params {
		if strings.Contains(strings.ToLower(key), fragment) ||
			strings.Contains(strings.ToLower(value), fragment) {
			return true
		}
	}
	return false
}

func argList(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "(" + strings.Join(args, ", ") + ")"
}

func singular(queryName string) string {
	// "timeseries" is both singular and plural.
	if queryName == "timeseries" {
		return queryName
	}
	return strings.TrimSuffix(queryName, "s")
}

func plural(queryName string) string {
	// "equipment" is uncountable in the schema, like "timeseries".
	if queryName == "equipment" || strings.HasSuffix(queryName, "s") {
		return queryName
	}
	return queryName + "s"
}

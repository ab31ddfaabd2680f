// Package ontology holds the static Brick-flavoured catalogue for the
// building/energy knowledge graph: entity classes, relation kinds, traversal
// patterns and the bilingual keyword tables used for intent detection.
//
// The catalogue is loaded once from an embedded YAML definition and is
// immutable afterwards, so a single Ontology can be shared by any number of
// concurrent pipeline invocations.
package ontology

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IntentKind classifies what a natural-language question is asking for.
type IntentKind string

const (
	IntentQueryEntity    IntentKind = "query_entity"    // specific entity by id/name
	IntentQueryList      IntentKind = "query_list"      // list entities of a type
	IntentQueryTraverse  IntentKind = "query_traverse"  // follow relationships
	IntentQueryAggregate IntentKind = "query_aggregate" // count/sum style
	IntentQueryPath      IntentKind = "query_path"      // path between entities
	IntentUnknown        IntentKind = "unknown"
)

// EntityClass is a Brick node label in the graph.
type EntityClass string

const (
	ClassBuilding          EntityClass = "brick_Building"
	ClassFloor             EntityClass = "brick_Floor"
	ClassRoom              EntityClass = "brick_Room"
	ClassHVACZone          EntityClass = "brick_HVAC_Zone"
	ClassHVACSystem        EntityClass = "brick_HVAC_System"
	ClassElectricalSystem  EntityClass = "brick_Electrical_System"
	ClassLightingSystem    EntityClass = "brick_Lighting_System"
	ClassAHU               EntityClass = "brick_Air_Handling_Unit"
	ClassVAV               EntityClass = "brick_Variable_Air_Volume_Box"
	ClassChiller           EntityClass = "brick_Chiller"
	ClassBoiler            EntityClass = "brick_Boiler"
	ClassPump              EntityClass = "brick_Pump"
	ClassFan               EntityClass = "brick_Fan"
	ClassElectricalMeter   EntityClass = "brick_Electrical_Meter"
	ClassThermalMeter      EntityClass = "brick_Thermal_Energy_Meter"
	ClassWaterMeter        EntityClass = "brick_Water_Meter"
	ClassTemperatureSensor EntityClass = "brick_Temperature_Sensor"
	ClassHumiditySensor    EntityClass = "brick_Humidity_Sensor"
	ClassCO2Sensor         EntityClass = "brick_CO2_Sensor"
	ClassPowerSensor       EntityClass = "brick_Power_Sensor"
	ClassEnergySensor      EntityClass = "brick_Energy_Sensor"
	ClassFlowSensor        EntityClass = "brick_Flow_Sensor"
	ClassPressureSensor    EntityClass = "brick_Pressure_Sensor"
	ClassTimeseries        EntityClass = "brick_Timeseries"
)

// Label returns the node label as stored in the graph.
func (c EntityClass) Label() string { return string(c) }

// ShortName strips the shared brick_ namespace prefix.
func (c EntityClass) ShortName() string { return strings.TrimPrefix(string(c), "brick_") }

// IsSensor reports whether the class is a concrete sensor subtype.
func (c EntityClass) IsSensor() bool {
	switch c {
	case ClassTemperatureSensor, ClassHumiditySensor, ClassCO2Sensor,
		ClassPowerSensor, ClassEnergySensor, ClassFlowSensor, ClassPressureSensor:
		return true
	}
	return false
}

// IsEquipment reports whether the class is a concrete equipment subtype.
func (c EntityClass) IsEquipment() bool {
	switch c {
	case ClassAHU, ClassVAV, ClassChiller, ClassBoiler, ClassPump, ClassFan:
		return true
	}
	return false
}

// IsSystem reports whether the class is a system subtype.
func (c EntityClass) IsSystem() bool {
	switch c {
	case ClassHVACSystem, ClassElectricalSystem, ClassLightingSystem:
		return true
	}
	return false
}

// IsMeter reports whether the class is a meter subtype.
func (c EntityClass) IsMeter() bool {
	switch c {
	case ClassElectricalMeter, ClassThermalMeter, ClassWaterMeter:
		return true
	}
	return false
}

// RelationKind is a Brick relationship type in the graph. Every kind has a
// defined inverse.
type RelationKind string

const (
	RelHasPart       RelationKind = "brick_hasPart"
	RelIsPartOf      RelationKind = "brick_isPartOf"
	RelHasLocation   RelationKind = "brick_hasLocation"
	RelHasPoint      RelationKind = "brick_hasPoint"
	RelIsPointOf     RelationKind = "brick_isPointOf"
	RelHasMember     RelationKind = "brick_hasMember"
	RelIsMemberOf    RelationKind = "brick_isMemberOf"
	RelFeeds         RelationKind = "brick_feeds"
	RelIsFedBy       RelationKind = "brick_isFedBy"
	RelMeters        RelationKind = "brick_meters"
	RelIsMeteredBy   RelationKind = "brick_isMeteredBy"
	RelHasTimeseries RelationKind = "brick_hasTimeseries"
)

var relationInverses = map[RelationKind]RelationKind{
	RelHasPart:       RelIsPartOf,
	RelIsPartOf:      RelHasPart,
	RelHasPoint:      RelIsPointOf,
	RelIsPointOf:     RelHasPoint,
	RelHasMember:     RelIsMemberOf,
	RelIsMemberOf:    RelHasMember,
	RelFeeds:         RelIsFedBy,
	RelIsFedBy:       RelFeeds,
	RelMeters:        RelIsMeteredBy,
	RelIsMeteredBy:   RelMeters,
	RelHasLocation:   RelHasLocation,
	RelHasTimeseries: RelHasTimeseries,
}

// Type returns the relationship type as stored in the graph.
func (r RelationKind) Type() string { return string(r) }

// Inverse returns the opposite direction of the relation. Relations without a
// distinct inverse (hasLocation, hasTimeseries) return themselves.
func (r RelationKind) Inverse() RelationKind {
	if inv, ok := relationInverses[r]; ok {
		return inv
	}
	return r
}

// Field describes one property or relation slot on an entity definition.
type Field struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description,omitempty"`
	Relation    bool        `yaml:"relation,omitempty"`
	RelatedTo   EntityClass `yaml:"related_to,omitempty"`
}

// EntityDefinition describes one entity class: its graph label, fields and
// the natural-language synonyms that map free text onto it.
type EntityDefinition struct {
	Class       EntityClass `yaml:"class"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Fields      []Field     `yaml:"fields"`
	SynonymsNo  []string    `yaml:"synonyms_no"`
	SynonymsEn  []string    `yaml:"synonyms_en"`
}

// PropertyNames returns the names of the scalar (non-relation) fields.
func (e *EntityDefinition) PropertyNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if !f.Relation {
			names = append(names, f.Name)
		}
	}
	return names
}

// matches reports whether any synonym or the canonical name occurs in the
// lower-cased text.
func (e *EntityDefinition) matches(textLower string) bool {
	if ContainsTerm(textLower, strings.ToLower(e.Name)) {
		return true
	}
	for _, syn := range e.SynonymsNo {
		if ContainsTerm(textLower, syn) {
			return true
		}
	}
	for _, syn := range e.SynonymsEn {
		if ContainsTerm(textLower, syn) {
			return true
		}
	}
	return false
}

// ContainsTerm reports whether term occurs in text starting on a word
// boundary. The end of the term may fall inside a word so inflected forms
// still match ("temperatursensorer", "bygget"), while short terms like
// "ahu" cannot hit inside unrelated names like "operahuset". Both
// arguments must already be lower-cased.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start+len(term) <= len(text); {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		i += start
		if i == 0 || !isWordRune(decodeLastRune(text[:i])) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func decodeLastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// TraversalPattern is a named multi-hop path template through the graph,
// used as a secondary disambiguation signal during intent extraction.
type TraversalPattern struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Path         string   `yaml:"path"`
	Keywords     []string `yaml:"keywords"`
	ReturnFields []string `yaml:"return_fields"`
}

// intentPatternSet binds one intent kind to its trigger keywords. The slice
// order in the catalogue is the detection priority order.
type intentPatternSet struct {
	Kind     IntentKind `yaml:"intent"`
	Keywords []string   `yaml:"keywords"`
}

// Ontology is the loaded, immutable catalogue.
type Ontology struct {
	entities   []EntityDefinition
	byClass    map[EntityClass]*EntityDefinition
	traversals []TraversalPattern
	byName     map[string]*TraversalPattern
	intents    []intentPatternSet
}

// Entities returns the entity definitions in catalogue order.
func (o *Ontology) Entities() []EntityDefinition { return o.entities }

// Entity looks up a definition by class.
func (o *Ontology) Entity(class EntityClass) (*EntityDefinition, bool) {
	def, ok := o.byClass[class]
	return def, ok
}

// Traversals returns the traversal patterns in catalogue order.
func (o *Ontology) Traversals() []TraversalPattern { return o.traversals }

// Traversal looks up a traversal pattern by name.
func (o *Ontology) Traversal(name string) (*TraversalPattern, bool) {
	t, ok := o.byName[name]
	return t, ok
}

// FindEntityByText matches free text against canonical names and synonyms in
// catalogue definition order and returns the first hit. A miss is not an
// error; it signals "entity unknown" and callers treat it as reduced
// confidence.
func (o *Ontology) FindEntityByText(text string) (EntityClass, bool) {
	textLower := strings.ToLower(text)
	for i := range o.entities {
		if o.entities[i].matches(textLower) {
			return o.entities[i].Class, true
		}
	}
	return "", false
}

// FindTraversalByText matches free text against each traversal pattern's
// keyword list in catalogue order.
func (o *Ontology) FindTraversalByText(text string) (*TraversalPattern, bool) {
	textLower := strings.ToLower(text)
	for i := range o.traversals {
		for _, kw := range o.traversals[i].Keywords {
			if strings.Contains(textLower, kw) {
				return &o.traversals[i], true
			}
		}
	}
	return nil, false
}

// DetectIntent matches free text against the per-intent keyword lists in the
// catalogue's fixed priority order. Aggregate keywords are checked before
// list keywords so that "hvor mange"/"how many" questions count rather than
// enumerate.
func (o *Ontology) DetectIntent(text string) IntentKind {
	textLower := strings.ToLower(text)
	for _, set := range o.intents {
		for _, kw := range set.Keywords {
			if strings.Contains(textLower, kw) {
				return set.Kind
			}
		}
	}
	return IntentUnknown
}

// ClassFromString maps a graph label string (as returned by the language
// model) back onto a known entity class.
func (o *Ontology) ClassFromString(s string) (EntityClass, bool) {
	if _, ok := o.byClass[EntityClass(s)]; ok {
		return EntityClass(s), true
	}
	return "", false
}

// LLMContext renders the catalogue as a prompt context block for the
// language-model extraction path.
func (o *Ontology) LLMContext() string {
	var b strings.Builder
	b.WriteString("## Entity Types\n")
	for i := range o.entities {
		e := &o.entities[i]
		synonyms := make([]string, 0, 5)
		synonyms = append(synonyms, firstN(e.SynonymsNo, 3)...)
		synonyms = append(synonyms, firstN(e.SynonymsEn, 2)...)
		fmt.Fprintf(&b, "- %s: %s (synonyms: %s; properties: %s)\n",
			e.Class, e.Name, strings.Join(synonyms, ", "), strings.Join(e.PropertyNames(), ", "))
	}
	b.WriteString("\n## Traversal Patterns\n")
	for i := range o.traversals {
		t := &o.traversals[i]
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	return b.String()
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

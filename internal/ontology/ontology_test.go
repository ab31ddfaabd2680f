package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestOntology(t *testing.T) *Ontology {
	t.Helper()
	o, err := Load()
	require.NoError(t, err)
	return o
}

func TestLoadCatalogue(t *testing.T) {
	o := loadTestOntology(t)

	assert.NotEmpty(t, o.Entities())
	assert.NotEmpty(t, o.Traversals())

	building, ok := o.Entity(ClassBuilding)
	require.True(t, ok)
	assert.Equal(t, "Building", building.Name)
	assert.Contains(t, building.PropertyNames(), "energy_class")
	assert.NotContains(t, building.PropertyNames(), "floors", "relation fields are not properties")
}

func TestParseRejectsBadCatalogues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no entities", "traversals: []\nintents: []\n"},
		{"duplicate class", `
entities:
  - {class: brick_Pump, name: Pump}
  - {class: brick_Pump, name: Pump}
intents:
  - {intent: query_list, keywords: [alle]}
`},
		{"unknown intent", `
entities:
  - {class: brick_Pump, name: Pump}
intents:
  - {intent: query_everything, keywords: [alt]}
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestFindEntityByText(t *testing.T) {
	o := loadTestOntology(t)

	cases := []struct {
		text  string
		want  EntityClass
		found bool
	}{
		{"Vis alle temperatursensorer", ClassTemperatureSensor, true},
		{"vis meg bygningen", ClassBuilding, true},
		{"Hvor mange etasjer har bygningen?", ClassFloor, true},
		{"hvilke soner finnes", ClassHVACZone, true},
		{"show me the air handling unit", ClassAHU, true},
		{"list all chillers", ClassChiller, true},
		{"hva er strømmåleren", ClassElectricalMeter, true},
		{"Hvilken energiklasse har Operahuset?", ClassBuilding, true},
		{"status for AHU-01", ClassAHU, true},
		{"helt urelatert tekst", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := o.FindEntityByText(tc.text)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFindEntityDefinitionOrderPrefersSpecific(t *testing.T) {
	o := loadTestOntology(t)

	// Both a floor synonym and a building synonym occur; the catalogue lists
	// Floor before Building so the specific class wins.
	got, ok := o.FindEntityByText("hvor mange etasjer har bygget")
	assert.True(t, ok)
	assert.Equal(t, ClassFloor, got)
}

func TestContainsTerm(t *testing.T) {
	// Inflected forms keep matching through the open term end.
	assert.True(t, ContainsTerm("vis alle temperatursensorer", "temperatursensor"))
	assert.True(t, ContainsTerm("hvor stort er bygget", "bygg"))
	assert.True(t, ContainsTerm("status for ahu-01", "ahu"))

	// Short terms must start on a word boundary.
	assert.False(t, ContainsTerm("hvilken energiklasse har operahuset", "ahu"))
	assert.False(t, ContainsTerm("operahuset", "hus"))
	assert.False(t, ContainsTerm("tekst", ""))
}

func TestDetectIntent(t *testing.T) {
	o := loadTestOntology(t)

	cases := []struct {
		text string
		want IntentKind
	}{
		{"Vis alle temperatursensorer", IntentQueryList},
		{"Hvor mange etasjer har bygningen?", IntentQueryAggregate},
		{"Antall sensorer", IntentQueryAggregate},
		{"Hva er adressen?", IntentQueryEntity},
		{"Hvilke soner mater hovedaggregatet?", IntentQueryTraverse},
		{"vei mellom aggregat og sone", IntentQueryPath},
		{"xyzzy", IntentUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, o.DetectIntent(tc.text))
		})
	}
}

func TestFindTraversalByText(t *testing.T) {
	o := loadTestOntology(t)

	tr, ok := o.FindTraversalByText("vis alle sensorer i bygget")
	require.True(t, ok)
	assert.Equal(t, "building_sensors", tr.Name)

	tr, ok = o.FindTraversalByText("tidsserier for aggregatet")
	require.True(t, ok)
	assert.Equal(t, "equipment_timeseries", tr.Name)

	_, ok = o.FindTraversalByText("hva er adressen")
	assert.False(t, ok)
}

func TestRelationInverses(t *testing.T) {
	assert.Equal(t, RelIsPartOf, RelHasPart.Inverse())
	assert.Equal(t, RelHasPart, RelIsPartOf.Inverse())
	assert.Equal(t, RelIsFedBy, RelFeeds.Inverse())
	assert.Equal(t, RelMeters, RelIsMeteredBy.Inverse())
	// hasTimeseries has no distinct inverse
	assert.Equal(t, RelHasTimeseries, RelHasTimeseries.Inverse())
}

func TestClassHelpers(t *testing.T) {
	assert.True(t, ClassTemperatureSensor.IsSensor())
	assert.False(t, ClassTemperatureSensor.IsEquipment())
	assert.True(t, ClassAHU.IsEquipment())
	assert.True(t, ClassHVACSystem.IsSystem())
	assert.True(t, ClassWaterMeter.IsMeter())
	assert.Equal(t, "Temperature_Sensor", ClassTemperatureSensor.ShortName())
}

func TestLLMContextListsCatalogue(t *testing.T) {
	o := loadTestOntology(t)
	ctx := o.LLMContext()

	assert.Contains(t, ctx, "brick_Building")
	assert.Contains(t, ctx, "building_sensors")
	assert.Contains(t, ctx, "## Traversal Patterns")
}

func TestDetectIntentChecksAggregateBeforeList(t *testing.T) {
	o := loadTestOntology(t)

	// "hvor mange" also looks like a listing lead-in; the priority order must
	// classify it as an aggregate.
	assert.Equal(t, IntentQueryAggregate, o.DetectIntent("hvor mange sensorer finnes i bygget"))
}

package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gronnbygg/energykg/internal/ontology"
)

func TestOptionalMatchBuilder(t *testing.T) {
	t.Run("relation match", func(t *testing.T) {
		b := NewOptionalMatchBuilder()
		b.AddRelationMatch("b", ontology.RelHasPart, "f", "brick_Floor")
		assert.Equal(t, "OPTIONAL MATCH (b)-[:brick_hasPart]->(f:brick_Floor)", b.Build())
	})

	t.Run("unlabelled target", func(t *testing.T) {
		b := NewOptionalMatchBuilder()
		b.AddRelationMatch("b", ontology.RelIsMeteredBy, "m", "")
		assert.Equal(t, "OPTIONAL MATCH (b)-[:brick_isMeteredBy]->(m)", b.Build())
	})

	t.Run("inverse match", func(t *testing.T) {
		b := NewOptionalMatchBuilder()
		b.AddInverseMatch("z", ontology.RelFeeds, "eq", "")
		assert.Equal(t, "OPTIONAL MATCH (z)<-[:brick_feeds]-(eq)", b.Build())
	})

	t.Run("clauses join on newlines", func(t *testing.T) {
		b := NewOptionalMatchBuilder()
		b.AddRelationMatch("z", ontology.RelHasPoint, "s", "")
		b.AddCustomMatch("(s)-[:brick_hasTimeseries]->(ts)")
		assert.Equal(t,
			"OPTIONAL MATCH (z)-[:brick_hasPoint]->(s)\nOPTIONAL MATCH (s)-[:brick_hasTimeseries]->(ts)",
			b.Build())
	})

	t.Run("variables are sanitized", func(t *testing.T) {
		b := NewOptionalMatchBuilder()
		b.AddRelationMatch("b) DETACH", ontology.RelHasPart, "f;", "brick_Floor")
		assert.Equal(t, "OPTIONAL MATCH (bDETACH)-[:brick_hasPart]->(f:brick_Floor)", b.Build())
	})
}

func TestProjection(t *testing.T) {
	t.Run("fields and expressions in insertion order", func(t *testing.T) {
		p := NewProjection().Fields("id", "name").Expr("type", "labels(s)[0]").Fields("unit")
		assert.Equal(t, "s {.id, .name, type: labels(s)[0], .unit}", p.Map("s"))
	})

	t.Run("collect distinct", func(t *testing.T) {
		p := NewProjection().Fields("id", "name")
		assert.Equal(t, "collect(DISTINCT f {.id, .name})", p.CollectDistinct("f"))
	})

	t.Run("collect", func(t *testing.T) {
		p := NewProjection().Fields("id")
		assert.Equal(t, "collect(eq {.id})", p.Collect("eq"))
	})
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "brick_CO2_Sensor", SanitizeLabel("brick_CO2_Sensor"))
	assert.Equal(t, "brick_SensorDETACHDELETE", SanitizeLabel("brick_Sensor) DETACH DELETE"))
	assert.Equal(t, "", SanitizeLabel("))(("))
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "eq", SanitizeIdentifier("eq"))
	assert.Equal(t, "v0eq", SanitizeIdentifier("0eq"))
	assert.Equal(t, "n", SanitizeIdentifier("$$"))
}

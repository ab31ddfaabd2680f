package intent

import (
	"fmt"
	"strings"

	"github.com/gronnbygg/energykg/internal/ontology"
)

// buildSystemPrompt primes the model with the ontology catalogue and the
// exact JSON shape we parse. The prompt is assembled once per extractor so
// repeated questions reuse it.
func buildSystemPrompt(ont *ontology.Ontology) string {
	var b strings.Builder

	b.WriteString("You extract structured query intents from questions about buildings, ")
	b.WriteString("energy systems and sensors. Questions may be in Norwegian or English.\n\n")

	b.WriteString(ont.LLMContext())
	b.WriteString("\n")

	b.WriteString("Intent types:\n")
	b.WriteString("- query_entity: look up one specific entity\n")
	b.WriteString("- query_list: list all entities of a type\n")
	b.WriteString("- query_traverse: follow relationships between entities\n")
	b.WriteString("- query_aggregate: count or summarise entities\n")
	b.WriteString("- query_path: find a path between two entities\n\n")

	b.WriteString("Respond with ONLY a JSON object, no prose:\n")
	b.WriteString(`{
  "intent_type": "query_entity",
  "entity_class": "brick_Building",
  "parameters": {"name": "Operahuset"},
  "traversal_hint": "",
  "requested_fields": ["name", "address"],
  "confidence": 0.9
}` + "\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- entity_class must be one of the classes listed above, or empty when unclear.\n")
	b.WriteString("- parameters holds only scalar values extracted from the question ")
	b.WriteString("(names, ids, numbers as strings).\n")
	b.WriteString("- traversal_hint names a traversal pattern when one clearly applies, otherwise empty.\n")
	b.WriteString("- confidence is between 0 and 1.\n\n")

	b.WriteString("Examples:\n")
	for _, ex := range promptExamples {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.question, ex.answer)
	}
	return b.String()
}

var promptExamples = []struct {
	question string
	answer   string
}{
	{
		"Hva er energimerket til Operahuset?",
		`{"intent_type":"query_entity","entity_class":"brick_Building","parameters":{"building_name":"Operahuset"},"traversal_hint":"","requested_fields":["energyLabel"],"confidence":0.9}`,
	},
	{
		"Vis alle temperatursensorer",
		`{"intent_type":"query_list","entity_class":"brick_Temperature_Sensor","parameters":{},"traversal_hint":"","requested_fields":[],"confidence":0.9}`,
	},
	{
		"Hvilke sensorer er i bygget?",
		`{"intent_type":"query_traverse","entity_class":"brick_Building","parameters":{},"traversal_hint":"building_sensors","requested_fields":[],"confidence":0.85}`,
	},
	{
		"Hvor mange rom er det?",
		`{"intent_type":"query_aggregate","entity_class":"brick_Room","parameters":{},"traversal_hint":"","requested_fields":[],"confidence":0.9}`,
	},
}

package ontology

import (
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// catalogueYAML embeds the default catalogue definition.
//
//go:embed catalogue.yaml
var catalogueYAML []byte

// catalogue is the on-disk shape of the YAML definition.
type catalogue struct {
	Entities   []EntityDefinition `yaml:"entities"`
	Traversals []TraversalPattern `yaml:"traversals"`
	Intents    []intentPatternSet `yaml:"intents"`
}

// Load parses the embedded catalogue into an immutable Ontology. It is called
// once at process start; the result is safe for concurrent use.
func Load() (*Ontology, error) {
	return Parse(catalogueYAML)
}

// Parse builds an Ontology from a YAML catalogue definition.
func Parse(data []byte) (*Ontology, error) {
	var cat catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse ontology catalogue: %w", err)
	}

	if len(cat.Entities) == 0 {
		return nil, fmt.Errorf("ontology catalogue defines no entities")
	}
	if len(cat.Intents) == 0 {
		return nil, fmt.Errorf("ontology catalogue defines no intent patterns")
	}

	o := &Ontology{
		entities:   cat.Entities,
		byClass:    make(map[EntityClass]*EntityDefinition, len(cat.Entities)),
		traversals: cat.Traversals,
		byName:     make(map[string]*TraversalPattern, len(cat.Traversals)),
		intents:    cat.Intents,
	}

	for i := range o.entities {
		e := &o.entities[i]
		if e.Class == "" || e.Name == "" {
			return nil, fmt.Errorf("entity %d is missing class or name", i)
		}
		if _, dup := o.byClass[e.Class]; dup {
			return nil, fmt.Errorf("duplicate entity class %q in catalogue", e.Class)
		}
		o.byClass[e.Class] = e
	}

	for i := range o.traversals {
		t := &o.traversals[i]
		if t.Name == "" {
			return nil, fmt.Errorf("traversal %d is missing a name", i)
		}
		if _, dup := o.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate traversal %q in catalogue", t.Name)
		}
		o.byName[t.Name] = t
	}

	for _, set := range o.intents {
		switch set.Kind {
		case IntentQueryEntity, IntentQueryList, IntentQueryTraverse,
			IntentQueryAggregate, IntentQueryPath:
		default:
			return nil, fmt.Errorf("unknown intent kind %q in catalogue", set.Kind)
		}
	}

	slog.Debug("loaded ontology catalogue",
		"entities", len(o.entities),
		"traversals", len(o.traversals),
		"intent_patterns", len(o.intents))

	return o, nil
}

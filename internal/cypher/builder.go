package cypher

import (
	"fmt"
	"strings"

	"github.com/gronnbygg/energykg/internal/ontology"
)

// OptionalMatchBuilder assembles the OPTIONAL MATCH section of a resolution.
// Related entities hang off the root node through Brick relationships, and
// each relationship may be absent, so every expansion is optional.
type OptionalMatchBuilder struct {
	clauses []string
}

func NewOptionalMatchBuilder() *OptionalMatchBuilder {
	return &OptionalMatchBuilder{}
}

// AddRelationMatch expands one Brick relationship from sourceVar into
// targetVar. An empty targetLabel matches any node, which is how mixed-label
// expansions like meters and systems are collected.
func (b *OptionalMatchBuilder) AddRelationMatch(sourceVar string, rel ontology.RelationKind, targetVar, targetLabel string) {
	target := SanitizeIdentifier(targetVar)
	if targetLabel != "" {
		target += ":" + SanitizeLabel(targetLabel)
	}
	b.clauses = append(b.clauses, fmt.Sprintf("OPTIONAL MATCH (%s)-[:%s]->(%s)",
		SanitizeIdentifier(sourceVar), rel.Type(), target))
}

// AddInverseMatch expands a relationship that points at sourceVar, e.g. the
// equipment feeding a zone.
func (b *OptionalMatchBuilder) AddInverseMatch(sourceVar string, rel ontology.RelationKind, targetVar, targetLabel string) {
	target := SanitizeIdentifier(targetVar)
	if targetLabel != "" {
		target += ":" + SanitizeLabel(targetLabel)
	}
	b.clauses = append(b.clauses, fmt.Sprintf("OPTIONAL MATCH (%s)<-[:%s]-(%s)",
		SanitizeIdentifier(sourceVar), rel.Type(), target))
}

// AddCustomMatch appends a hand-written pattern for shapes the helpers do
// not cover, such as an expansion with a trailing WHERE.
func (b *OptionalMatchBuilder) AddCustomMatch(pattern string) {
	b.clauses = append(b.clauses, "OPTIONAL MATCH "+pattern)
}

func (b *OptionalMatchBuilder) Build() string {
	return strings.Join(b.clauses, "\n")
}

// Projection assembles a Cypher map projection. Items render in insertion
// order so resolutions stay byte-stable.
type Projection struct {
	items []string
}

func NewProjection() *Projection {
	return &Projection{}
}

// Fields adds plain property projections, e.g. ".id, .name".
func (p *Projection) Fields(names ...string) *Projection {
	for _, name := range names {
		p.items = append(p.items, "."+name)
	}
	return p
}

// Expr adds a computed entry, e.g. "type: labels(s)[0]".
func (p *Projection) Expr(key, expression string) *Projection {
	p.items = append(p.items, key+": "+expression)
	return p
}

// Map renders the projection against a variable: "b {.id, .name}".
func (p *Projection) Map(varName string) string {
	return fmt.Sprintf("%s {%s}", varName, strings.Join(p.items, ", "))
}

// CollectDistinct renders "collect(DISTINCT var {...})" for one-to-many
// expansions.
func (p *Projection) CollectDistinct(varName string) string {
	return "collect(DISTINCT " + p.Map(varName) + ")"
}

// Collect renders "collect(var {...})" without DISTINCT.
func (p *Projection) Collect(varName string) string {
	return "collect(" + p.Map(varName) + ")"
}

// SanitizeLabel reduces a string to a safe node label. Labels cannot be
// bound as query parameters, so anything spliced into query text must pass
// through here first.
func SanitizeLabel(s string) string {
	var out strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// SanitizeIdentifier reduces a string to a safe Cypher variable name.
func SanitizeIdentifier(s string) string {
	var out strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	sanitized := out.String()
	if sanitized == "" {
		return "n"
	}
	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "v" + sanitized
	}
	return sanitized
}

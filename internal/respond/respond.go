// Package respond renders query results as natural-language answers in
// Norwegian or English.
package respond

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gronnbygg/energykg/internal/graphql"
	"github.com/gronnbygg/energykg/internal/intent"
	"github.com/gronnbygg/energykg/internal/ontology"
)

// Locale selects the answer language.
type Locale string

const (
	LocaleNorwegian Locale = "no"
	LocaleEnglish   Locale = "en"
)

// ParseLocale falls back to Norwegian, the deployment default.
func ParseLocale(s string) Locale {
	if strings.EqualFold(s, string(LocaleEnglish)) {
		return LocaleEnglish
	}
	return LocaleNorwegian
}

type Formatter struct {
	locale Locale
}

func NewFormatter(locale Locale) *Formatter {
	if locale != LocaleEnglish {
		locale = LocaleNorwegian
	}
	return &Formatter{locale: locale}
}

// Format renders rows for the given intent. Rows are cleaned first so the
// answer never shows null or empty placeholders.
func (f *Formatter) Format(rows []map[string]any, extracted *intent.Extracted, generated *graphql.GeneratedQuery) string {
	rows = CleanRows(rows)
	if len(rows) == 0 {
		return f.NoResults()
	}

	if answer, ok := f.targetedAnswer(rows, extracted); ok {
		return answer
	}

	switch extracted.Kind {
	case ontology.IntentQueryAggregate:
		return f.aggregate(rows)
	case ontology.IntentQueryList:
		return f.list(rows)
	case ontology.IntentQueryEntity:
		return f.entity(rows)
	case ontology.IntentQueryTraverse:
		return f.traversal(rows, generated)
	}
	return f.fallback(rows)
}

// NoResults is the fixed empty-result sentence.
func (f *Formatter) NoResults() string {
	if f.locale == LocaleNorwegian {
		return "Ingen resultater funnet for spørringen din."
	}
	return "No results found for your query."
}

// LowConfidence is shown when intent extraction was too uncertain to act on.
func (f *Formatter) LowConfidence(question string) string {
	if f.locale == LocaleNorwegian {
		return fmt.Sprintf("Beklager, jeg forstod ikke helt spørsmålet: %q\n\n"+
			"Prøv å spørre om:\n"+
			"  • Sensorer i bygget eller en sone\n"+
			"  • Utstyr som AHU, kjølemaskin, pumper\n"+
			"  • Målere og energidata\n"+
			"  • Soner og etasjer", question)
	}
	return fmt.Sprintf("Sorry, I didn't understand: %q\n\n"+
		"Try asking about:\n"+
		"  • Sensors in building or zone\n"+
		"  • Equipment like AHU, chiller, pumps\n"+
		"  • Meters and energy data\n"+
		"  • Zones and floors", question)
}

// ConnectionError is shown when the graph database is unreachable.
func (f *Formatter) ConnectionError() string {
	if f.locale == LocaleNorwegian {
		return "Kunne ikke koble til grafdatabasen.\nSjekk at Neo4j kjører og at tilkoblingen er riktig konfigurert."
	}
	return "Could not connect to the graph database.\nMake sure Neo4j is running and the connection is configured."
}

// QueryError is shown when execution failed after a connection was made.
func (f *Formatter) QueryError(err error) string {
	if f.locale == LocaleNorwegian {
		return fmt.Sprintf("Feil ved kjøring av spørring: %v", err)
	}
	return fmt.Sprintf("Query execution error: %v", err)
}

func (f *Formatter) aggregate(rows []map[string]any) string {
	count := any(len(rows))
	if c, ok := rows[0]["count"]; ok {
		count = c
	}
	if f.locale == LocaleNorwegian {
		return fmt.Sprintf("Antall: %v", count)
	}
	return fmt.Sprintf("Count: %v", count)
}

const listLimit = 15

func (f *Formatter) list(rows []map[string]any) string {
	var b strings.Builder
	if f.locale == LocaleNorwegian {
		fmt.Fprintf(&b, "Fant %d resultater:\n\n", len(rows))
	} else {
		fmt.Fprintf(&b, "Found %d results:\n\n", len(rows))
	}

	for i, row := range rows {
		if i == listLimit {
			break
		}
		row = unwrapSingle(row)
		var parts []string
		if name, ok := extractName(row); ok {
			parts = append(parts, name)
		}
		for _, key := range sortedKeys(row) {
			value := row[key]
			if key == "name" || key == "id" || value == nil || value == "" {
				continue
			}
			switch v := value.(type) {
			case map[string]any:
				continue
			case []any:
				if len(v) == 0 {
					continue
				}
				parts = append(parts, fmt.Sprintf("%s: [%d items]", listKey(key), len(v)))
			default:
				parts = append(parts, fmt.Sprintf("%s: %v", listKey(key), v))
			}
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, strings.Join(parts, " | "))
	}

	if len(rows) > listLimit {
		remaining := len(rows) - listLimit
		if f.locale == LocaleNorwegian {
			fmt.Fprintf(&b, "\n  ... og %d flere resultater\n", remaining)
		} else {
			fmt.Fprintf(&b, "\n  ... and %d more results\n", remaining)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

const nestedLimit = 5

func (f *Formatter) entity(rows []map[string]any) string {
	entity := unwrapSingle(rows[0])

	var b strings.Builder
	if name, ok := extractName(entity); ok {
		fmt.Fprintf(&b, "📍 %s\n\n", name)
	}

	for _, key := range sortedKeys(entity) {
		value := entity[key]
		if value == nil || key == "name" || key == "id" {
			continue
		}
		label := f.fieldName(key)

		switch v := value.(type) {
		case map[string]any:
			fmt.Fprintf(&b, "  %s:\n", label)
			for _, k := range sortedKeys(v) {
				if v[k] != nil {
					fmt.Fprintf(&b, "    • %s: %v\n", f.fieldName(k), v[k])
				}
			}
		case []any:
			if len(v) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s:\n", label)
			for i, item := range v {
				if i == nestedLimit {
					break
				}
				b.WriteString("    • " + itemLine(item) + "\n")
			}
			if len(v) > nestedLimit {
				fmt.Fprintf(&b, "    ... +%d mer\n", len(v)-nestedLimit)
			}
		default:
			fmt.Fprintf(&b, "  %s: %v\n", label, v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

const traversalLimit = 20

func (f *Formatter) traversal(rows []map[string]any, generated *graphql.GeneratedQuery) string {
	header := "Results"
	if generated != nil {
		header = generated.Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", header)

	for i, row := range rows {
		if i == traversalLimit {
			break
		}
		row = unwrapSingle(row)

		if name, ok := extractName(row); ok {
			fmt.Fprintf(&b, "  • %s\n", name)
		} else {
			b.WriteString("  •\n")
		}

		for _, key := range sortedKeys(row) {
			value := row[key]
			if key == "name" || key == "id" || value == nil {
				continue
			}
			label := titleKey(key)

			switch v := value.(type) {
			case map[string]any:
				var items []string
				for _, k := range sortedKeys(v) {
					if v[k] != nil && v[k] != "" {
						items = append(items, fmt.Sprintf("%s=%v", k, v[k]))
					}
				}
				if len(items) > 0 {
					fmt.Fprintf(&b, "      %s: %s\n", label, strings.Join(items, ", "))
				}
			case []any:
				if len(v) == 0 {
					continue
				}
				if _, isMap := v[0].(map[string]any); isMap {
					fmt.Fprintf(&b, "      %s:\n", label)
					for j, item := range v {
						if j == nestedLimit {
							break
						}
						if m, ok := item.(map[string]any); ok {
							if name, ok := extractName(m); ok {
								fmt.Fprintf(&b, "        - %s\n", name)
							}
						}
					}
					if len(v) > nestedLimit {
						fmt.Fprintf(&b, "        ... +%d more\n", len(v)-nestedLimit)
					}
				} else {
					var items []string
					for j, item := range v {
						if j == nestedLimit {
							break
						}
						items = append(items, fmt.Sprintf("%v", item))
					}
					fmt.Fprintf(&b, "      %s: %s\n", label, strings.Join(items, ", "))
				}
			default:
				if v != "" {
					fmt.Fprintf(&b, "      %s: %v\n", label, v)
				}
			}
		}
		b.WriteString("\n")
	}

	if len(rows) > traversalLimit {
		remaining := len(rows) - traversalLimit
		if f.locale == LocaleNorwegian {
			fmt.Fprintf(&b, "... og %d flere resultater\n", remaining)
		} else {
			fmt.Fprintf(&b, "... and %d more results\n", remaining)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

const fallbackLimit = 10

func (f *Formatter) fallback(rows []map[string]any) string {
	var b strings.Builder
	if f.locale == LocaleNorwegian {
		fmt.Fprintf(&b, "Resultater (%d):\n\n", len(rows))
	} else {
		fmt.Fprintf(&b, "Results (%d):\n\n", len(rows))
	}

	for i, row := range rows {
		if i == fallbackLimit {
			break
		}
		var parts []string
		if name, ok := extractName(row); ok {
			parts = append(parts, name)
		}
		for _, key := range sortedKeys(row) {
			value := row[key]
			if value == nil || key == "name" {
				continue
			}
			switch value.(type) {
			case map[string]any, []any:
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %v", key, value))
		}
		b.WriteString("  • " + strings.Join(parts, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// itemLine renders one nested list entry, preferring name plus a type or
// level qualifier.
func itemLine(item any) string {
	m, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", item)
	}
	name, ok := extractName(m)
	if !ok {
		if id, ok := m["id"]; ok {
			name = fmt.Sprintf("%v", id)
		} else {
			name = fmt.Sprintf("%v", m)
		}
	}
	qualifier := m["type"]
	if qualifier == nil {
		qualifier = m["level"]
	}
	if qualifier != nil {
		return fmt.Sprintf("%s (%v)", name, qualifier)
	}
	return name
}

// unwrapSingle flattens rows of the form {"b": {...}} that map projections
// produce.
func unwrapSingle(row map[string]any) map[string]any {
	if len(row) != 1 {
		return row
	}
	for _, value := range row {
		if inner, ok := value.(map[string]any); ok {
			return inner
		}
	}
	return row
}

// extractName finds the row's display name: "name", then "n.name", then any
// key containing "name".
func extractName(row map[string]any) (string, bool) {
	if v, ok := row["name"]; ok && v != nil {
		return fmt.Sprintf("%v", v), true
	}
	if v, ok := row["n.name"]; ok && v != nil {
		return fmt.Sprintf("%v", v), true
	}
	for _, key := range sortedKeys(row) {
		if strings.Contains(strings.ToLower(key), "name") && row[key] != nil {
			return fmt.Sprintf("%v", row[key]), true
		}
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func listKey(key string) string {
	return strings.ReplaceAll(strings.ReplaceAll(key, "_", " "), "Type", "")
}

func titleKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

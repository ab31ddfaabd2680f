package respond

import (
	"fmt"
	"strings"

	"github.com/gronnbygg/energykg/internal/intent"
)

// fieldAnswer maps a question fragment to the property answering it. The
// slice is ordered: Norwegian fragments come first so "areal" wins over the
// English "area" it contains.
type fieldAnswer struct {
	fragment string
	field    string
	template string
}

var fieldAnswers = []fieldAnswer{
	{"energimerke", "energy_class", "Energimerket er: %v"},
	{"energiklasse", "energy_class", "Energiklassen er: %v"},
	{"adresse", "address", "Adressen er: %v"},
	{"areal", "area_sqm", "Arealet er: %v m²"},
	{"størrelse", "area_sqm", "Størrelsen er: %v m²"},
	{"byggeår", "year_built", "Bygget ble bygget i: %v"},
	{"når ble", "year_built", "Bygget ble bygget i: %v"},
	{"hva heter", "name", "Navnet er: %v"},
	{"navn", "name", "Navnet er: %v"},
	{"energy class", "energy_class", "The energy class is: %v"},
	{"energy rating", "energy_class", "The energy rating is: %v"},
	{"address", "address", "The address is: %v"},
	{"area", "area_sqm", "The area is: %v m²"},
	{"size", "area_sqm", "The size is: %v m²"},
	{"built", "year_built", "It was built in: %v"},
	{"year", "year_built", "Year built: %v"},
}

// targetedAnswer answers single-property questions ("hva er adressen?")
// with one sentence instead of a full entity block.
func (f *Formatter) targetedAnswer(rows []map[string]any, extracted *intent.Extracted) (string, bool) {
	if len(rows) == 0 || extracted == nil || extracted.Question == "" {
		return "", false
	}
	question := strings.ToLower(extracted.Question)
	row := unwrapSingle(rows[0])

	for _, fa := range fieldAnswers {
		if !strings.Contains(question, fa.fragment) {
			continue
		}
		if value, ok := findFieldValue(row, fa.field); ok {
			return fmt.Sprintf(fa.template, value), true
		}
	}
	return "", false
}

// findFieldValue searches the row and its nested structures for a property.
func findFieldValue(data any, field string) (any, bool) {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := v[field]; ok && value != nil {
			return value, true
		}
		for _, key := range sortedKeys(v) {
			if value, ok := findFieldValue(v[key], field); ok {
				return value, true
			}
		}
	case []any:
		for _, item := range v {
			if value, ok := findFieldValue(item, field); ok {
				return value, true
			}
		}
	}
	return nil, false
}

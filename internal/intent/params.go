package intent

import (
	"regexp"
	"strings"

	"github.com/gronnbygg/energykg/internal/ontology"
)

var (
	idPattern     = regexp.MustCompile(`(?i)\b(?:id|nummer|number)[\s=:]+['"]?(\w+)`)
	quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)
)

// Known proper-noun terms, lowercased, matched on word boundaries. Each
// pass claims one parameter key; the first match for a key wins and later
// passes never overwrite it.
var (
	buildingNames  = []string{"operahuset", "opera", "hovedbygg"}
	zoneNames      = []string{"foyer", "hovedsal", "backstage", "sone"}
	equipmentNames = []string{"ahu", "aggregat", "kjølemaskin", "chiller", "pumpe"}
)

// extractParameters scans the question for filter values using fixed passes
// so the same question always yields the same parameter map.
func extractParameters(question string) map[string]string {
	params := map[string]string{}
	lower := strings.ToLower(question)

	if m := idPattern.FindStringSubmatch(question); m != nil {
		params["id"] = m[1]
	}
	if m := quotedPattern.FindStringSubmatch(question); m != nil {
		setIfAbsent(params, "name", m[1])
	}
	for _, name := range buildingNames {
		if ontology.ContainsTerm(lower, name) {
			setIfAbsent(params, "building_name", name)
			break
		}
	}
	for _, name := range zoneNames {
		if ontology.ContainsTerm(lower, name) {
			setIfAbsent(params, "zone_name", name)
			break
		}
	}
	for _, name := range equipmentNames {
		if ontology.ContainsTerm(lower, name) {
			setIfAbsent(params, "equipment_name", name)
			break
		}
	}
	return params
}

func setIfAbsent(params map[string]string, key, value string) {
	if _, ok := params[key]; !ok {
		params[key] = value
	}
}

package respond

// Property names as stored in the graph, translated for display.
var fieldNames = map[string]struct{ no, en string }{
	"energy_class": {"Energimerke", "Energy Class"},
	"area_sqm":     {"Areal (m²)", "Area (m²)"},
	"year_built":   {"Byggeår", "Year Built"},
	"address":      {"Adresse", "Address"},
	"description":  {"Beskrivelse", "Description"},
	"floors":       {"Etasjer", "Floors"},
	"systems":      {"Systemer", "Systems"},
	"meters":       {"Målere", "Meters"},
	"sensors":      {"Sensorer", "Sensors"},
	"equipment":    {"Utstyr", "Equipment"},
	"zones":        {"Soner", "Zones"},
	"fedBy":        {"Mates av", "Fed By"},
	"unit":         {"Enhet", "Unit"},
	"external_id":  {"Ekstern ID", "External ID"},
	"resolution":   {"Oppløsning", "Resolution"},
	"timeseries":   {"Tidsserie", "Timeseries"},
	"level":        {"Nivå", "Level"},
}

func (f *Formatter) fieldName(key string) string {
	if names, ok := fieldNames[key]; ok {
		if f.locale == LocaleNorwegian {
			return names.no
		}
		return names.en
	}
	return titleKey(key)
}

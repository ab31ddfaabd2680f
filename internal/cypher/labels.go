package cypher

// Subtype argument values accepted by the schema, mapped to Brick labels.
// Both the bare type ("Chiller") and the full label suffix
// ("Temperature_Sensor") are accepted since intents surface either form.

var systemTypeLabels = map[string]string{
	"HVAC":       "brick_HVAC_System",
	"Electrical": "brick_Electrical_System",
	"Lighting":   "brick_Lighting_System",
}

var equipmentTypeLabels = map[string]string{
	"AHU":               "brick_Air_Handling_Unit",
	"Air_Handling_Unit": "brick_Air_Handling_Unit",
	"Chiller":           "brick_Chiller",
	"Boiler":            "brick_Boiler",
	"Pump":              "brick_Pump",
	"Fan":               "brick_Fan",
}

var sensorTypeLabels = map[string]string{
	"Temperature":        "brick_Temperature_Sensor",
	"Temperature_Sensor": "brick_Temperature_Sensor",
	"Humidity":           "brick_Humidity_Sensor",
	"Humidity_Sensor":    "brick_Humidity_Sensor",
	"CO2":                "brick_CO2_Sensor",
	"CO2_Sensor":         "brick_CO2_Sensor",
	"Power":              "brick_Power_Sensor",
	"Power_Sensor":       "brick_Power_Sensor",
	"Energy":             "brick_Energy_Sensor",
	"Energy_Sensor":      "brick_Energy_Sensor",
	"Pressure":           "brick_Pressure_Sensor",
	"Pressure_Sensor":    "brick_Pressure_Sensor",
	"Flow":               "brick_Flow_Sensor",
	"Flow_Sensor":        "brick_Flow_Sensor",
}

var meterTypeLabels = map[string]string{
	"Electrical":     "brick_Electrical_Meter",
	"Thermal_Energy": "brick_Thermal_Energy_Meter",
	"Thermal":        "brick_Thermal_Energy_Meter",
	"Water":          "brick_Water_Meter",
}

// labelFor resolves a subtype argument to a Brick label, falling back to
// prefixing unknown types. The result is sanitized because it is spliced
// into query text.
func labelFor(known map[string]string, subtype string) string {
	if label, ok := known[subtype]; ok {
		return label
	}
	return SanitizeLabel("brick_" + subtype)
}

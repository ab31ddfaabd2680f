package respond

// CleanRows strips null values and empty maps from result rows so the
// formatters never render placeholders for absent relationships.
func CleanRows(rows []map[string]any) []map[string]any {
	cleaned := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if c, ok := cleanValue(row); ok {
			if m, isMap := c.(map[string]any); isMap {
				cleaned = append(cleaned, m)
			}
		}
	}
	return cleaned
}

// cleanValue returns the cleaned value and whether it should be kept.
// Nulls and maps or lists that end up empty are dropped.
func cleanValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		cleaned := make(map[string]any, len(v))
		for key, item := range v {
			if c, ok := cleanValue(item); ok {
				cleaned[key] = c
			}
		}
		if len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	case []any:
		cleaned := make([]any, 0, len(v))
		for _, item := range v {
			if c, ok := cleanValue(item); ok {
				cleaned = append(cleaned, c)
			}
		}
		if len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	default:
		return value, true
	}
}

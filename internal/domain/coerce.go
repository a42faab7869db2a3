package domain

// CoerceSnapshot turns an arbitrary, possibly malformed payload into a valid
// Snapshot. Type mismatches are substituted with section or field defaults,
// hiring scores are clamped into [0,5], and undeclared keys from the source
// are dropped. It never fails.
func CoerceSnapshot(raw map[string]any) Snapshot {
	snap := DefaultSnapshot()
	if raw == nil {
		return snap
	}

	if basic, ok := raw["basic"].(map[string]any); ok {
		snap.Basic.Name = asString(basic["name"], snap.Basic.Name)
		snap.Basic.Domain = asString(basic["domain"], snap.Basic.Domain)
		snap.Basic.Country = asString(basic["country"], snap.Basic.Country)
		snap.Basic.Industries = asStringList(basic["industries"])
		snap.Basic.DescriptionSummary = asString(basic["description_summary"], snap.Basic.DescriptionSummary)
	}

	if org, ok := raw["organization"].(map[string]any); ok {
		snap.Organization.EmployeeSize = asString(org["employee_size"], SizeUnknown)
		snap.Organization.Locations = asStringList(org["locations"])
	}
	if snap.Organization.EmployeeSize == "" {
		snap.Organization.EmployeeSize = SizeUnknown
	}

	if hiring, ok := raw["hiring_focus"].(map[string]any); ok {
		for _, dep := range Departments {
			snap.HiringFocus[dep] = clampScore(hiring[dep])
		}
	}

	if strat, ok := raw["strategic_profile"].(map[string]any); ok {
		snap.StrategicProfile.PrimaryMarkets = asStringList(strat["primary_markets"])
		snap.StrategicProfile.ProductThemes = asStringList(strat["product_themes"])
		snap.StrategicProfile.TargetSegments = asStringList(strat["target_segments"])
		snap.StrategicProfile.NotableStrengths = asStringList(strat["notable_strengths"])
		snap.StrategicProfile.RiskFactors = asStringList(strat["risk_factors"])
	}

	return snap
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func asStringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			return append(out, strs...)
		}
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// clampScore coerces a hiring-focus value to an integer in [0,5].
// Non-numeric values become 0. JSON numbers decode as float64.
func clampScore(v any) int {
	var n int
	switch val := v.(type) {
	case float64:
		n = int(val)
	case int:
		n = val
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

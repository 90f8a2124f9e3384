package schema

// AllCategories lists the fixed category set in prompt order.
// CatchAllCategory is last and is the guaranteed fallback.
var AllCategories = []Category{
	RolePlayingCategory,
	SocialCasinoCategory,
	StrategyCategory,
	ActionCategory,
	SimulationCategory,
	CasualCategory,
	CatchAllCategory,
}

// ValidCategories lists all valid category labels.
var ValidCategories = map[Category]struct{}{
	RolePlayingCategory:  {},
	SocialCasinoCategory: {},
	StrategyCategory:     {},
	ActionCategory:       {},
	SimulationCategory:   {},
	CasualCategory:       {},
	CatchAllCategory:     {},
}

// ValidPlatforms lists all valid platforms.
var ValidPlatforms = map[Platform]struct{}{
	IOSPlatform: {},
	GPPlatform:  {},
}

// ValidCharts lists all valid chart types.
var ValidCharts = map[Chart]struct{}{
	TopGrossingChart: {},
	TopFreeChart:     {},
	TopOtherChart:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidBackends lists all valid store backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsValidCategory reports whether label is one of the fixed categories.
func IsValidCategory(label Category) bool {
	_, ok := ValidCategories[label]
	return ok
}

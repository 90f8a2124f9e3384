package schema

// Custom string types for type safety.
type (
	// Platform represents an app store platform.
	Platform string

	// Chart represents a ranking chart type.
	Chart string

	// Category represents a unified game category label.
	Category string

	// Direction represents the direction of a rank swing.
	Direction string

	// CategorySource represents where a category cache entry came from.
	CategorySource string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// All platforms supported.
const (
	IOSPlatform Platform = "ios" // default
	GPPlatform  Platform = "gp"
)

// All chart types supported.
const (
	TopGrossingChart Chart = "top_grossing"
	TopFreeChart     Chart = "top_free"
	TopOtherChart    Chart = "top_other"
)

// The fixed category set. Both the heuristic classifier and the external
// classifier validator consult this single enumeration; CatchAllCategory is
// the designated fallback so every app receives exactly one category.
const (
	RolePlayingCategory  Category = "角色扮演"
	SocialCasinoCategory Category = "社交賭場"
	StrategyCategory     Category = "策略對戰"
	ActionCategory       Category = "動作競技"
	SimulationCategory   Category = "模擬沙盒"
	CasualCategory       Category = "休閒益智"
	CatchAllCategory     Category = "其他"
)

// All mover directions supported.
const (
	RiseDirection Direction = "rise"
	FallDirection Direction = "fall"
)

// All category cache entry sources supported.
const (
	OverrideSource CategorySource = "override"
	ResolverSource CategorySource = "resolver"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Fixed analytics policy constants. These are policy, not tunables: reports
// produced by different deployments must stay comparable.
const (
	// MoverThreshold is the minimum |delta| for an app to count as a mover.
	MoverThreshold = 10

	// MoverLimit caps the number of movers reported per (key, date pair).
	MoverLimit = 10

	// MetadataTopLimit bounds update-detection candidates to the top ranked
	// apps of the current snapshot, to control external call volume.
	MetadataTopLimit = 50

	// DateIndexCap is the maximum number of dates retained per country.
	DateIndexCap = 50
)

// UpdateEventTag marks version-update events in reports.
const UpdateEventTag = "version_update"

// DateKeyFormat is the compact date layout used in keys and date indexes.
// Zero-padded so lexicographic order equals chronological order.
const DateKeyFormat = "20060102"

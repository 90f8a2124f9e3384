package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 1
	DefaultClassifyWait = time.Second          // Minimum spacing between classifier calls
	DefaultLookupWait   = 300 * time.Millisecond // Spacing between metadata lookups
	DefaultHTTPTimeout  = 10 * time.Second
)

// DefaultWorkers is the default number of concurrent workers for external
// metadata fan-out.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultCountries are the markets processed when none are configured.
var DefaultCountries = []string{"TW", "US", "CN", "TH", "PH"}

// DefaultCharts are the chart types analyzed for movers and updates.
var DefaultCharts = []schema.Chart{schema.TopGrossingChart, schema.TopFreeChart}

// DefaultPlatforms are the platforms analyzed for movers and updates.
var DefaultPlatforms = []schema.Platform{schema.IOSPlatform, schema.GPPlatform}

// Config holds the runtime configuration for a batch run.
// This struct remains the "final, validated" config.
type Config struct {
	Countries []string
	Platforms []schema.Platform
	Charts    []schema.Chart

	Workers   int
	Precision int

	Output     schema.OutputMode
	OutputFile string

	StoreBackend schema.DatabaseBackend
	StoreConnect string // Please use env var as this is plaintext

	CatalogBackend schema.DatabaseBackend
	CatalogConnect string // Please use env var as this is plaintext

	SheetURL    string
	MetadataURL string
	OverrideURL string

	ClassifierURL   string
	ClassifierModel string
	ClassifierKey   string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ClassifierConfigured reports whether an external classifier can be called.
// Both the endpoint and the key are required.
func (c *Config) ClassifierConfigured() bool {
	return c.ClassifierKey != "" && c.ClassifierURL != ""
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Countries       string `mapstructure:"countries"`
	Platforms       string `mapstructure:"platforms"`
	Charts          string `mapstructure:"charts"`
	Workers         int    `mapstructure:"workers"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	StoreBackend    string `mapstructure:"store-backend"`
	StoreConnect    string `mapstructure:"store-db-connect"`
	CatalogBackend  string `mapstructure:"catalog-backend"`
	CatalogConnect  string `mapstructure:"catalog-db-connect"`
	SheetURL        string `mapstructure:"sheet-url"`
	MetadataURL     string `mapstructure:"metadata-url"`
	OverrideURL     string `mapstructure:"override-url"`
	ClassifierURL   string `mapstructure:"classifier-url"`
	ClassifierModel string `mapstructure:"classifier-model"`
	ClassifierKey   string `mapstructure:"classifier-key"`
	Color           string `mapstructure:"color"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processCountries(cfg, input); err != nil {
		return err
	}
	if err := processPlatforms(cfg, input); err != nil {
		return err
	}
	if err := processCharts(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBackends(cfg, input); err != nil {
		return err
	}

	cfg.SheetURL = strings.TrimSpace(input.SheetURL)
	cfg.MetadataURL = strings.TrimSpace(input.MetadataURL)
	cfg.OverrideURL = strings.TrimSpace(input.OverrideURL)
	cfg.ClassifierURL = strings.TrimSpace(input.ClassifierURL)
	cfg.ClassifierModel = strings.TrimSpace(input.ClassifierModel)
	cfg.ClassifierKey = strings.TrimSpace(input.ClassifierKey)
	cfg.UseColors = parseBoolFlag(input.Color)

	// A key without an endpoint would select the external-classifier path
	// and then fail every call, shadowing the keyword heuristic.
	if cfg.ClassifierKey != "" && cfg.ClassifierURL == "" {
		return fmt.Errorf("classifier-url is required when classifier-key is set")
	}

	return nil
}

// processCountries parses and normalizes the country list.
func processCountries(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Countries) == "" {
		cfg.Countries = DefaultCountries
		return nil
	}
	var countries []string
	for _, cc := range strings.Split(input.Countries, ",") {
		cc = strings.ToUpper(strings.TrimSpace(cc))
		if cc == "" {
			continue
		}
		if len(cc) != 2 {
			return fmt.Errorf("invalid country code %q: must be a 2-letter code", cc)
		}
		countries = append(countries, cc)
	}
	if len(countries) == 0 {
		return fmt.Errorf("no valid country codes in %q", input.Countries)
	}
	cfg.Countries = countries
	return nil
}

// processPlatforms parses and validates the platform list.
func processPlatforms(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Platforms) == "" {
		cfg.Platforms = DefaultPlatforms
		return nil
	}
	var platforms []schema.Platform
	for _, p := range strings.Split(input.Platforms, ",") {
		platform := schema.Platform(strings.ToLower(strings.TrimSpace(p)))
		if _, ok := schema.ValidPlatforms[platform]; !ok {
			return fmt.Errorf("invalid platform %q: must be ios or gp", p)
		}
		platforms = append(platforms, platform)
	}
	cfg.Platforms = platforms
	return nil
}

// processCharts parses and validates the chart list.
func processCharts(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Charts) == "" {
		cfg.Charts = DefaultCharts
		return nil
	}
	var charts []schema.Chart
	for _, c := range strings.Split(input.Charts, ",") {
		chart := schema.Chart(strings.ToLower(strings.TrimSpace(c)))
		if _, ok := schema.ValidCharts[chart]; !ok {
			return fmt.Errorf("invalid chart %q: must be top_grossing, top_free or top_other", c)
		}
		charts = append(charts, chart)
	}
	cfg.Charts = charts
	return nil
}

// validateSimpleInputs validates scalar flags.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("precision must be between 0 and 2, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	output := schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q: must be text, csv or json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)

	return nil
}

// processBackends validates both store backends and their connection strings.
func processBackends(cfg *Config, input *ConfigRawInput) error {
	storeBackend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.StoreBackend)))
	if _, ok := schema.ValidBackends[storeBackend]; !ok {
		return fmt.Errorf("invalid store backend %q: must be sqlite, mysql, postgresql, or none", input.StoreBackend)
	}
	if err := ValidateDatabaseConnectionString(storeBackend, input.StoreConnect); err != nil {
		return err
	}
	cfg.StoreBackend = storeBackend
	cfg.StoreConnect = input.StoreConnect

	catalogBackend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.CatalogBackend)))
	if catalogBackend == "" {
		catalogBackend = storeBackend
	}
	if _, ok := schema.ValidBackends[catalogBackend]; !ok {
		return fmt.Errorf("invalid catalog backend %q: must be sqlite, mysql, postgresql, or none", input.CatalogBackend)
	}
	if err := ValidateDatabaseConnectionString(catalogBackend, input.CatalogConnect); err != nil {
		return err
	}
	cfg.CatalogBackend = catalogBackend
	cfg.CatalogConnect = input.CatalogConnect

	// Separate databases keep snapshot blobs and category rows from
	// contending for the same sqlite write lock.
	if cfg.StoreBackend != schema.SQLiteBackend && cfg.StoreConnect != "" && cfg.StoreConnect == cfg.CatalogConnect {
		return fmt.Errorf("store-db-connect and catalog-db-connect must differ")
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string: expected format user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("invalid PostgreSQL connection string: expected key=value pairs or a postgres:// URL")
		}
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}
}

// parseBoolFlag interprets yes/no style flag values.
func parseBoolFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "on", "":
		return true
	default:
		return false
	}
}

package contract

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/ahp/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 20
	MaxResultLimit     = 1000
	DefaultPrecision   = 4
	MaxPrecision       = 8
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	QuestionnairePath string
	Hierarchy         schema.Hierarchy
	InputFiles        []string // positional submission files

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CRThreshold float64
	Mode        schema.AggregationMode
	Expert      string // overrides the expert name of a single input
	Save        bool
	FromStore   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	NATSURL string

	Listen        string
	MetricsListen string
	RateLimit     float64 // requests per second per client, 0 = unlimited

	UseEmojis bool // Enable emojis in progress messages
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Questionnaire  string  `mapstructure:"questionnaire"`
	OutputFile     string  `mapstructure:"output-file"`
	Limit          int     `mapstructure:"limit" validate:"gt=0,lte=1000"`
	Workers        int     `mapstructure:"workers" validate:"gt=0"`
	Precision      int     `mapstructure:"precision" validate:"gte=1,lte=8"`
	Output         string  `mapstructure:"output"`
	Width          int     `mapstructure:"width" validate:"gte=0"`
	CRThreshold    float64 `mapstructure:"cr-threshold" validate:"gt=0,lte=1"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	NATSURL        string  `mapstructure:"nats-url" validate:"omitempty,url"`
	Emoji          string  `mapstructure:"emoji"`
	Color          string  `mapstructure:"color"`

	// --- Fields from command flags ---
	Mode          string  `mapstructure:"mode"`
	Expert        string  `mapstructure:"expert"`
	Save          bool    `mapstructure:"save"`
	FromStore     bool    `mapstructure:"from-store"`
	Listen        string  `mapstructure:"listen" validate:"omitempty,hostname_port"`
	MetricsListen string  `mapstructure:"metrics-listen" validate:"omitempty,hostname_port"`
	RateLimit     float64 `mapstructure:"rate-limit" validate:"gte=0"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.InputFiles = append([]string(nil), c.InputFiles...)
	if c.Hierarchy.Criteria != nil {
		clone.Hierarchy.Criteria = make([]schema.Criterion, len(c.Hierarchy.Criteria))
		for i, crit := range c.Hierarchy.Criteria {
			clone.Hierarchy.Criteria[i] = schema.Criterion{
				Name:        crit.Name,
				SubCriteria: append([]string(nil), crit.SubCriteria...),
			}
		}
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateStruct(input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := loadQuestionnaire(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateStruct runs the tag-based checks and turns the first failure into
// a message naming the flag.
func validateStruct(input *ConfigRawInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Limit":
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %v)", MaxResultLimit, fe.Value())
	case "Workers":
		return fmt.Errorf("workers must be greater than 0 (received %v)", fe.Value())
	case "Precision":
		return fmt.Errorf("precision must be between 1 and %d (received %v)", MaxPrecision, fe.Value())
	case "Width":
		return fmt.Errorf("width cannot be negative (received %v)", fe.Value())
	case "CRThreshold":
		return fmt.Errorf("cr-threshold must be greater than 0 and at most 1 (received %v)", fe.Value())
	case "NATSURL":
		return fmt.Errorf("nats-url must be a valid URL (received %q)", fe.Value())
	case "Listen":
		return fmt.Errorf("listen must be a host:port address (received %q)", fe.Value())
	case "MetricsListen":
		return fmt.Errorf("metrics-listen must be a host:port address (received %q)", fe.Value())
	case "RateLimit":
		return fmt.Errorf("rate-limit cannot be negative (received %v)", fe.Value())
	default:
		return fmt.Errorf("invalid %s: failed %q", fe.Field(), fe.Tag())
	}
}

// validateSimpleInputs processes and validates all enum and boolean fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ResultLimit = input.Limit
	cfg.Workers = input.Workers
	cfg.Precision = input.Precision
	cfg.CRThreshold = input.CRThreshold
	cfg.NATSURL = input.NATSURL
	cfg.Expert = strings.TrimSpace(input.Expert)
	cfg.Save = input.Save
	cfg.FromStore = input.FromStore
	cfg.Listen = input.Listen
	cfg.MetricsListen = input.MetricsListen
	cfg.RateLimit = input.RateLimit

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx, markdown, html", input.Output)
	}

	cfg.Mode = schema.BothMode
	if input.Mode != "" {
		cfg.Mode = schema.AggregationMode(strings.ToLower(input.Mode))
		if _, ok := schema.ValidAggregationModes[cfg.Mode]; !ok {
			return fmt.Errorf("invalid mode '%s'. must be aij, aip, both", input.Mode)
		}
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.StoreBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// loadQuestionnaire resolves the hierarchy every expert answers against.
func loadQuestionnaire(cfg *Config, input *ConfigRawInput) error {
	h, err := schema.LoadHierarchy(input.Questionnaire)
	if err != nil {
		return err
	}
	cfg.QuestionnairePath = input.Questionnaire
	cfg.Hierarchy = h
	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the optional dotenv-style config file looked up in ./configs
// and in the working directory.
const FileName = "cashbook.env"

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendMemory, BackendSQLite}

type Config struct {
	// Storage backend
	DataBackend    string
	SQLiteDBPath   string
	MemorySeedFile string

	// Ledger and report presentation
	DefaultPeriodLabel   string
	CurrencyPrefix       string
	AmountFractionDigits int
	ReportDir            string

	LogLevel string

	// AMQP change notifications, disabled when AMQPURL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets report sink
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// Load builds the configuration from defaults, the optional config file and
// the environment, in increasing order of priority. A missing config file is
// not an error.
func Load() (*Config, error) {
	return load(FileName)
}

func load(fileName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(fileName)
	v.SetConfigType("env")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()

	return &Config{
		DataBackend:    strings.ToLower(strings.TrimSpace(v.GetString("DATA_BACKEND"))),
		SQLiteDBPath:   v.GetString("SQLITE_DB_PATH"),
		MemorySeedFile: v.GetString("MEMORY_SEED_FILE"),

		DefaultPeriodLabel:   v.GetString("DEFAULT_PERIOD_LABEL"),
		CurrencyPrefix:       v.GetString("CURRENCY_PREFIX"),
		AmountFractionDigits: v.GetInt("AMOUNT_FRACTION_DIGITS"),
		ReportDir:            v.GetString("REPORT_DIR"),

		LogLevel: v.GetString("LOG_LEVEL"),

		AMQPURL:        v.GetString("AMQP_URL"),
		AMQPExchange:   v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey: v.GetString("AMQP_ROUTING_KEY"),

		GoogleSpreadsheetID: v.GetString("GOOGLE_SPREADSHEET_ID"),
		GoogleSheetName:     v.GetString("GOOGLE_SHEET_NAME"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATA_BACKEND", BackendSQLite)
	v.SetDefault("SQLITE_DB_PATH", "./data/cashbook.db")
	v.SetDefault("MEMORY_SEED_FILE", "")

	v.SetDefault("DEFAULT_PERIOD_LABEL", "May 2023")
	v.SetDefault("CURRENCY_PREFIX", "Rs. ")
	v.SetDefault("AMOUNT_FRACTION_DIGITS", 2)
	v.SetDefault("REPORT_DIR", ".")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "cashbook")
	v.SetDefault("AMQP_ROUTING_KEY", "ledger_changes")

	v.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_SHEET_NAME", "Report")
}

// AMQPEnabled reports whether change notifications should be published.
func (c *Config) AMQPEnabled() bool {
	return strings.TrimSpace(c.AMQPURL) != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite && strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AmountFractionDigits < 0 || c.AmountFractionDigits > 4 {
		errors = append(errors, fmt.Sprintf("invalid amount fraction digits %d: must be between 0 and 4", c.AmountFractionDigits))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate AMQP URL if provided
	if c.AMQPEnabled() {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	verdict "github.com/verdictai/verdict-go"
)

// Config holds CLI configuration. Priority, lowest to highest: defaults,
// the YAML config file, environment variables, flags.
type Config struct {
	APIKey      string `envconfig:"VERDICT_API_KEY" yaml:"api_key"`
	BaseURL     string `envconfig:"VERDICT_BASE_URL" yaml:"base_url"`
	AppName     string `envconfig:"VERDICT_APP_NAME" yaml:"app_name"`
	Environment string `envconfig:"VERDICT_ENVIRONMENT" yaml:"environment"`

	PollTimeout  int `envconfig:"VERDICT_POLL_TIMEOUT" yaml:"poll_timeout"`   // seconds
	PollInterval int `envconfig:"VERDICT_POLL_INTERVAL" yaml:"poll_interval"` // seconds
}

// Validate checks settings every subcommand depends on. Per-command
// requirements (app name, environment) are checked by the commands.
func (c *Config) Validate() error {
	var errs []string
	if c.APIKey == "" {
		errs = append(errs, "api_key is required (flag --api-key or VERDICT_API_KEY)")
	}
	if c.PollTimeout <= 0 {
		errs = append(errs, "poll_timeout must be positive")
	}
	if c.PollInterval <= 0 {
		errs = append(errs, "poll_interval must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Environment = "dev"
	cfg.PollTimeout = int(verdict.DefaultPollTimeout / time.Second)
	cfg.PollInterval = int(verdict.DefaultPollInterval / time.Second)
}

// clientFromCmd builds the SDK client from config file, environment, and
// flags. Diagnostics go to stderr in console form, at debug level when
// --verbose is set.
func clientFromCmd(cmd *cobra.Command) (*Config, *verdict.Client, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	if v, _ := cmd.Flags().GetString("api-key"); v != "" {
		cfg.APIKey = v
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	diagnostics := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	opts := []verdict.ClientOption{verdict.WithDiagnostics(diagnostics)}
	if cfg.BaseURL != "" {
		opts = append(opts, verdict.WithBaseURL(cfg.BaseURL))
	}

	return cfg, verdict.NewClient(cfg.APIKey, opts...), nil
}

// initLogger configures the client's log recorder from the CLI config.
func initLogger(cfg *Config, client *verdict.Client) (*verdict.Logger, error) {
	if cfg.AppName == "" {
		return nil, fmt.Errorf("app_name is required (VERDICT_APP_NAME or the config file)")
	}
	if cfg.Environment == "" {
		return nil, fmt.Errorf("environment is required (VERDICT_ENVIRONMENT or the config file)")
	}
	logger := client.Logger().Init(verdict.LoggerConfig{
		AppName:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if !logger.Configured() {
		return nil, fmt.Errorf("logger initialization failed, see diagnostics above")
	}
	return logger, nil
}

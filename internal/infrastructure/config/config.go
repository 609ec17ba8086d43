package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor HOMEBAR_CONFIG is set.
const DefaultPath = "configs/config.yaml"

// Config is the root configuration structure for homebar.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	MDNS     MDNSConfig     `yaml:"mdns"`
	Logging  LoggingConfig  `yaml:"logging"`
	Licence  LicenceConfig  `yaml:"licence"`
}

// SnapshotConfig says where the home snapshot comes from. A file is loaded
// once at startup; the MQTT topic, when the MQTT bridge is enabled, replaces
// it with every retained update.
type SnapshotConfig struct {
	File  string `yaml:"file"`
	Topic string `yaml:"topic" validate:"required"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path" validate:"required"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout" validate:"min=0"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos" validate:"min=0,max=2"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	Breaker   BreakerConfig       `yaml:"breaker"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=0,max=65535"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay" validate:"min=0"`
	MaxDelay     int `yaml:"max_delay" validate:"min=0"`
}

// BreakerConfig tunes the circuit breaker in front of command publishing.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold int `yaml:"failure_threshold" validate:"min=1"`
	// OpenTimeout is how long (seconds) the breaker stays open before probing.
	OpenTimeout int `yaml:"open_timeout" validate:"min=1"`
}

// WebhookConfig contains the local HTTP listener settings.
type WebhookConfig struct {
	Enabled    bool                 `yaml:"enabled"`
	Host       string               `yaml:"host"`
	Port       int                  `yaml:"port" validate:"min=1,max=65535"`
	Timeouts   WebhookTimeoutConfig `yaml:"timeouts"`
	RateLimit  RateLimitConfig      `yaml:"rate_limit"`
	CORSOrigin string               `yaml:"cors_origin"`
}

// WebhookTimeoutConfig contains HTTP timeout settings in seconds.
type WebhookTimeoutConfig struct {
	Read  int `yaml:"read" validate:"min=0"`
	Write int `yaml:"write" validate:"min=0"`
	Idle  int `yaml:"idle" validate:"min=0"`
}

// RateLimitConfig contains rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" validate:"min=0"`
	Burst             int  `yaml:"burst" validate:"min=0"`
}

// InfluxDBConfig contains InfluxDB connection settings for command history.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url" validate:"omitempty,url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size" validate:"min=0"`
	FlushInterval int    `yaml:"flush_interval" validate:"min=0"`
}

// MDNSConfig controls Bonjour advertisement of the webhook listener.
type MDNSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
	Service  string `yaml:"service"`
	Domain   string `yaml:"domain"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
	Output string `yaml:"output" validate:"oneof=stdout stderr"`
}

// LicenceConfig gates features that require a Pro licence.
type LicenceConfig struct {
	Pro bool `yaml:"pro"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HOMEBAR_SECTION_KEY
// For example: HOMEBAR_DATABASE_PATH, HOMEBAR_WEBHOOK_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Snapshot: SnapshotConfig{
			Topic: "homebar/snapshot",
		},
		Database: DatabaseConfig{
			Path:        "./data/homebar.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homebar",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			Breaker: BreakerConfig{
				FailureThreshold: 5,
				OpenTimeout:      30,
			},
		},
		Webhook: WebhookConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8423,
			Timeouts: WebhookTimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
			CORSOrigin: "*",
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		MDNS: MDNSConfig{
			Instance: "homebar",
			Service:  "_homebar._tcp",
			Domain:   "local.",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMEBAR_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"HOMEBAR_SNAPSHOT_FILE", &cfg.Snapshot.File},
		{"HOMEBAR_DATABASE_PATH", &cfg.Database.Path},
		{"HOMEBAR_MQTT_HOST", &cfg.MQTT.Broker.Host},
		{"HOMEBAR_MQTT_USERNAME", &cfg.MQTT.Auth.Username},
		{"HOMEBAR_MQTT_PASSWORD", &cfg.MQTT.Auth.Password},
		{"HOMEBAR_WEBHOOK_HOST", &cfg.Webhook.Host},
		{"HOMEBAR_INFLUXDB_URL", &cfg.InfluxDB.URL},
		{"HOMEBAR_INFLUXDB_TOKEN", &cfg.InfluxDB.Token},
		{"HOMEBAR_LOG_LEVEL", &cfg.Logging.Level},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("HOMEBAR_WEBHOOK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HOMEBAR_WEBHOOK_PORT: %w", err)
		}
		cfg.Webhook.Port = port
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{"HOMEBAR_MQTT_ENABLED", &cfg.MQTT.Enabled},
		{"HOMEBAR_LICENCE_PRO", &cfg.Licence.Pro},
	}
	for _, b := range bools {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.env, err)
		}
		*b.dst = parsed
	}

	return nil
}

// Validate checks the configuration for errors. Struct tag rules and the
// cross-section checks are reported together.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, describeFieldError(fe))
		}
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.Port == 0 {
			errs = append(errs, "mqtt.broker.port is required when mqtt is enabled")
		}
		if c.MQTT.Broker.ClientID == "" {
			errs = append(errs, "mqtt.broker.client_id is required when mqtt is enabled")
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" || c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.url, influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if c.MDNS.Enabled {
		if !c.Webhook.Enabled {
			errs = append(errs, "mdns requires the webhook to be enabled")
		}
		if c.MDNS.Service == "" {
			errs = append(errs, "mdns.service is required when mdns is enabled")
		}
	}

	if c.Webhook.RateLimit.Enabled && c.Webhook.RateLimit.RequestsPerMinute == 0 {
		errs = append(errs, "webhook.rate_limit.requests_per_minute must be positive when rate limiting is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// structValidator returns a validator that reports fields by their YAML key.
func structValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeFieldError renders a validator error as "section.key <rule>".
func describeFieldError(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	case "url":
		return path + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %q validation", path, fe.Tag())
	}
}

// WebhookAddr returns the host:port the webhook listens on.
func (c *Config) WebhookAddr() string {
	return fmt.Sprintf("%s:%d", c.Webhook.Host, c.Webhook.Port)
}

// GetReadTimeout returns the webhook read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Webhook.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the webhook write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Webhook.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the webhook idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Webhook.Timeouts.Idle) * time.Second
}

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the acme-blogs binaries.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Board   BoardConfig   `yaml:"board" mapstructure:"board"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Redis   RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
}

// APIConfig points the fetcher at the remote API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	Breaker BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// BreakerConfig tunes the fetcher's circuit breaker.
type BreakerConfig struct {
	Enabled             bool          `yaml:"enabled" mapstructure:"enabled"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures" mapstructure:"consecutive_failures" validate:"omitempty,gte=1"`
	Timeout             time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// BoardConfig controls how the board renders.
type BoardConfig struct {
	Title         string `yaml:"title" mapstructure:"title"`
	FailurePolicy string `yaml:"failure_policy" mapstructure:"failure_policy" validate:"oneof=skip abort"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1,lte=64"`
	DefaultUser   int    `yaml:"default_user" mapstructure:"default_user" validate:"gte=1"`
}

// ServerConfig is used by the serve command.
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr" validate:"required"`
	Metrics bool   `yaml:"metrics" mapstructure:"metrics"`

	// MaxBoards caps the viewer boards held in memory; IdleTTL drops boards nobody touched.
	MaxBoards int           `yaml:"max_boards" mapstructure:"max_boards" validate:"gte=0"`
	IdleTTL   time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl" validate:"gte=0"`
}

// RedisConfig selects the Redis session store. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr    string        `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
	LockTTL time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl" validate:"gte=0"`
}

// StoreConfig selects the file session store when Redis is not configured.
// An empty Dir keeps sessions in memory.
type StoreConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Style string `yaml:"style" mapstructure:"style" validate:"oneof=auto dark light notty"`
	Wrap  int    `yaml:"wrap" mapstructure:"wrap" validate:"gte=0"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://jsonplaceholder.typicode.com",
			Timeout: 10 * time.Second,
			Breaker: BreakerConfig{Enabled: true, ConsecutiveFailures: 5, Timeout: 30 * time.Second},
		},
		Board: BoardConfig{
			Title:         "Acme Blogs",
			FailurePolicy: "skip",
			Concurrency:   4,
			DefaultUser:   1,
		},
		Server:  ServerConfig{Addr: ":8080", Metrics: true, MaxBoards: 1024, IdleTTL: 30 * time.Minute},
		Redis:   RedisConfig{TTL: 24 * time.Hour, LockTTL: 30 * time.Second},
		Log:     LogConfig{Level: "info", Format: "text"},
		Display: DisplayConfig{Style: "auto", Wrap: 80},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads the YAML file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML data into cfg. Keys missing from data keep their current value.
func Parse(data []byte, cfg *Config) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks every field constraint and reports all violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

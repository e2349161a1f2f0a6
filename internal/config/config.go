package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Calendar provider types
const (
	CalendarBuiltin = "builtin"
	CalendarFile    = "file"
	CalendarRemote  = "remote"
)

// Config represents application configuration
type Config struct {
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Calculator CalculatorConfig `mapstructure:"calculator"`
	State      StateConfig      `mapstructure:"state"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`
	Log        LogConfig        `mapstructure:"log"`
}

// CalendarConfig selects and configures the holiday calendar
type CalendarConfig struct {
	Type     string `mapstructure:"type" validate:"oneof=builtin file remote"`
	Country  string `mapstructure:"country" validate:"len=2,alpha"`
	File     string `mapstructure:"file"`
	APIURL   string `mapstructure:"api_url" validate:"omitempty,url"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// CalculatorConfig holds defaults for calculator inputs not yet persisted
type CalculatorConfig struct {
	TotalHours float64 `mapstructure:"total_hours" validate:"gt=0"`
	DailyHours float64 `mapstructure:"daily_hours" validate:"gt=0,lte=24"`
	Preset     string  `mapstructure:"preset" validate:"required"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// DaemonConfig represents watch mode configuration
type DaemonConfig struct {
	Debounce   string `mapstructure:"debounce"`
	SystemTray bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// LogConfig represents logger configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

var validate = newValidator()

// newValidator reports fields by their config keys instead of Go names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.academy-tools")
		v.AddConfigPath("/etc/academy-tools")
	}

	// Read environment variables, e.g. ACADEMY_CALENDAR_TYPE
	v.SetEnvPrefix("academy")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.type", CalendarBuiltin)
	v.SetDefault("calendar.country", "KR")
	v.SetDefault("calendar.api_url", "https://date.nager.at")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calculator.total_hours", 600)
	v.SetDefault("calculator.daily_hours", 8)
	v.SetDefault("calculator.preset", "mon-fri")
	v.SetDefault("state.file", "academy-state.json")
	v.SetDefault("daemon.debounce", "500ms")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s fails %q (got %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}

	switch c.Calendar.Type {
	case CalendarFile:
		if c.Calendar.File == "" {
			return fmt.Errorf("calendar.file is required for file type")
		}
	case CalendarRemote:
		if c.Calendar.APIURL == "" {
			return fmt.Errorf("calendar.api_url is required for remote type")
		}
	}

	if _, err := time.ParseDuration(c.Calendar.CacheTTL); c.Calendar.CacheTTL != "" && err != nil {
		return fmt.Errorf("calendar.cache_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Daemon.Debounce); c.Daemon.Debounce != "" && err != nil {
		return fmt.Errorf("daemon.debounce: %w", err)
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetDebounce returns how long watch mode waits for writes to settle
func (c *DaemonConfig) GetDebounce() time.Duration {
	if c.Debounce == "" {
		return 500 * time.Millisecond
	}
	duration, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return duration
}

// ExpandEnvVars expands environment variables in config paths
func (c *Config) ExpandEnvVars() {
	c.Calendar.File = os.ExpandEnv(c.Calendar.File)
	c.State.File = os.ExpandEnv(c.State.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

// fieldPath turns "Config.calendar.type" into "calendar.type"
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Cadence CadenceConfig `yaml:"cadence" mapstructure:"cadence"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputConfig configures how prospect files are read.
type InputConfig struct {
	Sheet        string        `yaml:"sheet" mapstructure:"sheet"`
	MappingFile  string        `yaml:"mapping_file" mapstructure:"mapping_file"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"` // remote --file downloads
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// CadenceConfig holds the follow-up interval in days for each priority tier.
type CadenceConfig struct {
	HighDays int `yaml:"high_days" json:"high_days" mapstructure:"high_days" validate:"gte=7,lte=60"`
	MedDays  int `yaml:"med_days" json:"med_days" mapstructure:"med_days" validate:"gte=7,lte=90"`
	LowDays  int `yaml:"low_days" json:"low_days" mapstructure:"low_days" validate:"gte=7,lte=120"`
}

// ExportConfig configures export defaults.
type ExportConfig struct {
	Template string `yaml:"template" mapstructure:"template"`
	CSVName  string `yaml:"csv_name" mapstructure:"csv_name"`
	XLSXName string `yaml:"xlsx_name" mapstructure:"xlsx_name"`
}

// ServerConfig configures the local explorer API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      int      `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.rate_limit", 600)
	v.SetDefault("cadence.high_days", 14)
	v.SetDefault("cadence.med_days", 30)
	v.SetDefault("cadence.low_days", 45)
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.mapping_file", "")
	v.SetDefault("input.fetch_timeout", "30s")
	v.SetDefault("input.max_retries", 3)
	v.SetDefault("export.template", "None")
	v.SetDefault("export.csv_name", "prospects_filtered.csv")
	v.SetDefault("export.xlsx_name", "prospects_filtered.xlsx")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

var validate = validator.New()

// Validate checks that the config is usable for the given command mode.
// Modes: "explore" (any offline command) and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "explore":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Input.MaxRetries < 0 {
		errs = append(errs, "input.max_retries must be >= 0")
	}
	if err := c.Cadence.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks each cadence against its slider bounds.
func (c CadenceConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return eris.Wrap(err, "cadence: validate")
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("cadence.%s must be %s %s", cadenceKey(fe.Field()), boundWord(fe.Tag()), fe.Param()))
	}
	return eris.New(strings.Join(msgs, "; "))
}

func cadenceKey(field string) string {
	switch field {
	case "HighDays":
		return "high_days"
	case "MedDays":
		return "med_days"
	case "LowDays":
		return "low_days"
	}
	return strings.ToLower(field)
}

func boundWord(tag string) string {
	if tag == "gte" {
		return ">="
	}
	return "<="
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Analysis
	AnomalyThreshold    float64 `mapstructure:"anomaly_threshold" yaml:"anomaly_threshold" validate:"gte=0"`
	SignificancePercent float64 `mapstructure:"significance_percent" yaml:"significance_percent" validate:"gte=0"`
	StdDevMode          string  `mapstructure:"stddev_mode" yaml:"stddev_mode" validate:"oneof=population sample"`
	ReportOrder         string  `mapstructure:"report_order" yaml:"report_order" validate:"oneof=mean encounter"`
	StrictLoad          bool    `mapstructure:"strict_load" yaml:"strict_load"`

	// Output
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=text markdown yaml json"`
	ChartWidth   int    `mapstructure:"chart_width" yaml:"chart_width" validate:"gte=8,lte=400"`
	Color        bool   `mapstructure:"color" yaml:"color"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"anomaly_threshold",
	"significance_percent",
	"stddev_mode",
	"report_order",
	"strict_load",
	"output_format",
	"chart_width",
	"color",
	"log_level",
	"log_format",
}

const (
	envPrefix = "NUTRISCAN"
	dirName   = ".nutriscan"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("anomaly_threshold", 1.1)
	v.SetDefault("significance_percent", 20.0)
	v.SetDefault("stddev_mode", "population")
	v.SetDefault("report_order", "mean")
	v.SetDefault("strict_load", false)
	v.SetDefault("output_format", "text")
	v.SetDefault("chart_width", 48)
	v.SetDefault("color", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// DefaultPath is ~/.nutriscan/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.nutriscan/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New()

// Validate checks every field against its allowed values.
func (c *Global) Validate() error {
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
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s %s)", keyFor(fe.StructField()), fe.Value(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func keyFor(field string) string {
	switch field {
	case "AnomalyThreshold":
		return "anomaly_threshold"
	case "SignificancePercent":
		return "significance_percent"
	case "StdDevMode":
		return "stddev_mode"
	case "ReportOrder":
		return "report_order"
	case "OutputFormat":
		return "output_format"
	case "ChartWidth":
		return "chart_width"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	}
	return field
}

// Get returns a key's value formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "anomaly_threshold":
		return strconv.FormatFloat(c.AnomalyThreshold, 'g', -1, 64), nil
	case "significance_percent":
		return strconv.FormatFloat(c.SignificancePercent, 'g', -1, 64), nil
	case "stddev_mode":
		return c.StdDevMode, nil
	case "report_order":
		return c.ReportOrder, nil
	case "strict_load":
		return strconv.FormatBool(c.StrictLoad), nil
	case "output_format":
		return c.OutputFormat, nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	case "color":
		return strconv.FormatBool(c.Color), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into key and validates the result. c is left unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	val = strings.TrimSpace(val)
	switch key {
	case "anomaly_threshold", "significance_percent":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		if key == "anomaly_threshold" {
			next.AnomalyThreshold = f
		} else {
			next.SignificancePercent = f
		}
	case "stddev_mode":
		next.StdDevMode = strings.ToLower(val)
	case "report_order":
		next.ReportOrder = strings.ToLower(val)
	case "output_format":
		switch f := strings.ToLower(val); f {
		case "md":
			next.OutputFormat = "markdown"
		case "yml":
			next.OutputFormat = "yaml"
		default:
			next.OutputFormat = f
		}
	case "chart_width":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for chart_width: %v", val)
		}
		next.ChartWidth = i
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	case "strict_load", "color":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "color" {
			next.Color = b
		} else {
			next.StrictLoad = b
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"labelsplit/internal/domain"
)

const (
	// EnvPrefix prefixes every environment override, e.g. LABELSPLIT_DATA_PATH
	EnvPrefix = "LABELSPLIT"
	// DefaultConfigFile is read from the working directory when no --config is given
	DefaultConfigFile = "labelsplit.yaml"
	DefaultDataPath   = "./data/ears"
)

// Config holds every setting of a preparation run
type Config struct {
	DataPath     string  `mapstructure:"data_path"`
	SplitRatio   float64 `mapstructure:"split_ratio"`
	MaxItems     int     `mapstructure:"max_items"` // <= 0 processes every training image
	ImageExt     string  `mapstructure:"image_ext"`
	LabelExt     string  `mapstructure:"label_ext"`
	MatchMode    string  `mapstructure:"match_mode"`
	ManifestPath string  `mapstructure:"manifest_path"` // empty uses the XDG data directory
	LogMode      string  `mapstructure:"log_mode"`
}

// NewViper returns a viper instance with defaults and environment overrides wired in
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads configPath (or DefaultConfigFile when present) into v and decodes the result.
// Values already bound on v (flags, env) take precedence over the file.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configPath = DefaultConfigFile
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		DataPath:   DefaultDataPath,
		SplitRatio: domain.DefaultSplitRatio,
		MaxItems:   domain.DefaultMaxItems,
		ImageExt:   domain.DefaultImageExt,
		LabelExt:   domain.DefaultLabelExt,
		MatchMode:  domain.MatchExact.String(),
		LogMode:    "development",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_path", d.DataPath)
	v.SetDefault("split_ratio", d.SplitRatio)
	v.SetDefault("max_items", d.MaxItems)
	v.SetDefault("image_ext", d.ImageExt)
	v.SetDefault("label_ext", d.LabelExt)
	v.SetDefault("match_mode", d.MatchMode)
	v.SetDefault("manifest_path", d.ManifestPath)
	v.SetDefault("log_mode", d.LogMode)
}

// Validate checks the configuration for values the run cannot work with
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DataPath) == "" {
		errs = append(errs, errors.New("data_path is required"))
	}
	if err := domain.ValidateRatio(c.SplitRatio); err != nil {
		errs = append(errs, fmt.Errorf("split_ratio: %w", err))
	}
	if !strings.HasPrefix(c.ImageExt, ".") {
		errs = append(errs, fmt.Errorf("image_ext must start with a dot, got: %q", c.ImageExt))
	}
	if !strings.HasPrefix(c.LabelExt, ".") {
		errs = append(errs, fmt.Errorf("label_ext must start with a dot, got: %q", c.LabelExt))
	}
	if _, err := domain.ParseMatchMode(c.MatchMode); err != nil {
		errs = append(errs, fmt.Errorf("match_mode: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Match returns the parsed label match mode
func (c *Config) Match() domain.MatchMode {
	mode, _ := domain.ParseMatchMode(c.MatchMode)
	return mode
}

// ParseRatio parses a split ratio given as a fraction ("0.8") or a percentage ("80%")
func ParseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	if percent {
		ratio /= 100
	}

	if err := domain.ValidateRatio(ratio); err != nil {
		return 0, err
	}
	return ratio, nil
}

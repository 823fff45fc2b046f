package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/cram/pkg/logging"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/validation"
)

// Config locates the document store.
type Config interface {
	BasePath() string
}

// RedistributeConfig describes the optional reshaping of the outline before
// overrides apply.
type RedistributeConfig struct {
	Enabled       bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Start         int    `json:"start" yaml:"start" mapstructure:"start" validate:"min=0,max=31"`
	End           int    `json:"end" yaml:"end" mapstructure:"end" validate:"min=0,max=31"`
	Month         string `json:"month" yaml:"month" mapstructure:"month" validate:"omitempty,month"`
	SkipCompleted bool   `json:"skip_completed" yaml:"skip_completed" mapstructure:"skip_completed"`
	Limit         int    `json:"limit" yaml:"limit" mapstructure:"limit" validate:"min=0"`
}

// Range resolves the configured target days.
func (r RedistributeConfig) Range() (plan.Range, error) {
	month, ok := outline.ParseMonth(r.Month)
	if !ok {
		return plan.Range{}, fmt.Errorf("%w: month %q", plan.ErrInvalidRange, r.Month)
	}
	rng := plan.Range{Start: r.Start, End: r.End, Month: month}
	return rng, rng.Validate()
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	Path         string             `json:"path" yaml:"path" mapstructure:"path" validate:"required"`
	Outline      string             `json:"outline" yaml:"outline" mapstructure:"outline" validate:"required"`
	TitlePrefix  string             `json:"title_prefix" yaml:"title_prefix" mapstructure:"title_prefix"`
	Redistribute RedistributeConfig `json:"redistribute" yaml:"redistribute" mapstructure:"redistribute"`
	// File is the config file that was read, if any.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"-"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

// OutlinePath is the outline location, relative paths resolved against the
// working directory.
func (f *FileConfig) OutlinePath() string {
	return f.Outline
}

// Defaults.
const (
	DefaultPath    = "~/.cram"
	DefaultOutline = "plan.txt"
)

// LoadConfig reads .cram.yaml from $CRAM_CONFIG_PATH or the working
// directory, overlays CRAM_* environment variables and validates the result.
func LoadConfig() (*FileConfig, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*FileConfig, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("outline", DefaultOutline)
	v.SetDefault("title_prefix", outline.DefaultTitlePrefix)
	v.SetDefault("redistribute.enabled", false)
	v.SetDefault("redistribute.start", 0)
	v.SetDefault("redistribute.end", 0)
	v.SetDefault("redistribute.month", time.January.String())
	v.SetDefault("redistribute.skip_completed", true)
	v.SetDefault("redistribute.limit", 0)
	v.SetConfigName(".cram") // .yaml is implicit
	v.SetEnvPrefix("CRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("CRAM_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
		log := logging.Component("config")
		log.Debug().Msg("no config file, using defaults")
	}

	cfg := &FileConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	path, err := homedir.Expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	cfg.Path = filepath.Clean(path)
	if cfg.Outline, err = homedir.Expand(cfg.Outline); err != nil {
		return nil, fmt.Errorf("store: expand outline: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("store: invalid config: %w", err)
	}
	return cfg, nil
}

// Package config loads the engine's optional construction-time defaults
// from a YAML file and PANFLOW_-prefixed environment variables via
// spf13/viper. This is a convenience for callers constructing an
// Engine; the engine's own methods still take every
// parameter explicitly - nothing here is read by internal/merge,
// internal/dedup, etc. directly.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ancoleman/panflow-sub001/internal/conflict"
	"github.com/ancoleman/panflow-sub001/internal/engineerr"
)

// EngineDefaults holds the construction-time defaults an Engine may be
// built with: the engine-wide conflict strategy, the
// XPath LRU cache's capacity/TTL, and whether version
// adaptation defaults to tolerant mode.
type EngineDefaults struct {
	ConflictStrategy string `mapstructure:"conflict_strategy"`
	CacheCapacity    int    `mapstructure:"cache_capacity"`
	CacheTTLSeconds  int    `mapstructure:"cache_ttl_seconds"`
	Tolerant         bool   `mapstructure:"tolerant"`
	RenameSuffix     string `mapstructure:"rename_suffix"`
}

// CacheTTL converts CacheTTLSeconds to a time.Duration for
// xmltree.NewCache.
func (c EngineDefaults) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Strategy returns ConflictStrategy as a conflict.Strategy.
func (c EngineDefaults) Strategy() conflict.Strategy {
	return conflict.Strategy(c.ConflictStrategy)
}

// Load loads EngineDefaults from cfgFile (if non-empty), environment
// variables, and built-in defaults, using a fresh viper.Viper instance.
func Load(cfgFile string) (*EngineDefaults, error) {
	return LoadWithViper(cfgFile, viper.New())
}

// LoadWithFlags binds flags before reading the file/environment, so
// flag values take highest precedence.
func LoadWithFlags(cfgFile string, flags *pflag.FlagSet) (*EngineDefaults, error) {
	v := viper.New()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}
	return LoadWithViper(cfgFile, v)
}

// LoadWithViper loads EngineDefaults using the provided Viper instance.
// Precedence order: CLI flags (if pre-bound) > environment variables
// ("PANFLOW_*") > config file > built-in defaults.
func LoadWithViper(cfgFile string, v *viper.Viper) (*EngineDefaults, error) {
	v.SetDefault("conflict_strategy", string(conflict.Skip))
	v.SetDefault("cache_capacity", 1024)
	v.SetDefault("cache_ttl_seconds", 300)
	v.SetDefault("tolerant", false)
	v.SetDefault("rename_suffix", "_imported")

	v.SetEnvPrefix("PANFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
			}
		}
	}

	cfg := &EngineDefaults{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.ConflictStrategy = strings.ToLower(strings.TrimSpace(cfg.ConflictStrategy))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks EngineDefaults for internal consistency.
func (c EngineDefaults) Validate() error {
	if !c.Strategy().IsValid() {
		return engineerr.Newf(engineerr.InvalidArgument, "config: unknown conflict_strategy %q", c.ConflictStrategy)
	}
	if c.CacheCapacity < 0 {
		return engineerr.New(engineerr.InvalidArgument, "config: cache_capacity must be >= 0")
	}
	if c.CacheTTLSeconds < 0 {
		return engineerr.New(engineerr.InvalidArgument, "config: cache_ttl_seconds must be >= 0")
	}
	return nil
}

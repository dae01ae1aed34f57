// Package pipeline wraps layout runs with result caching and option files.
//
// Both the CLI and the HTTP service go through a [Runner], so a graph laid
// out once with a given set of options is served from the cache afterwards,
// whichever entry point asks.
//
// # Usage
//
//	opts, err := pipeline.LoadOptions("layered.toml")
//	if err != nil {
//	    return err
//	}
//	c, err := pipeline.OpenCache(ctx, opts.Cache)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	out, hit, err := runner.Layout(ctx, g, opts.Layout)
//
// # Option Files
//
// Option files are TOML (.toml) or YAML (.yaml, .yml):
//
//	[layout]
//	rankdir = "LR"
//	nodesep = 40
//	ranker = "tight-tree"
//
//	[cache]
//	ttl = "24h"
//	[cache.redis]
//	addr = "localhost:6379"
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/layered/pkg/cache"
	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/layout"
)

// EnvRedisURL overrides the Redis URL of any option file.
const EnvRedisURL = "LAYERED_REDIS_URL"

// Options is the content of an option file.
type Options struct {
	Layout layout.Options `json:"layout" toml:"layout" yaml:"layout"`
	Cache  CacheOptions   `json:"cache" toml:"cache" yaml:"cache"`
}

// CacheOptions selects and configures the result cache.
type CacheOptions struct {
	// Disabled turns caching off entirely.
	Disabled bool `json:"disabled,omitempty" toml:"disabled" yaml:"disabled,omitempty"`
	// Dir is the file cache directory. Defaults to the user cache dir.
	Dir string `json:"dir,omitempty" toml:"dir" yaml:"dir,omitempty"`
	// TTL bounds the age of cached layouts. Defaults to cache.DefaultTTL.
	TTL time.Duration `json:"ttl,omitempty" toml:"ttl" yaml:"ttl,omitempty"`
	// Redis, when it names a server, replaces the file cache.
	Redis cache.RedisConfig `json:"redis" toml:"redis" yaml:"redis"`
}

// UsesRedis reports whether a Redis server is configured.
func (o CacheOptions) UsesRedis() bool {
	return o.Redis.URL != "" || o.Redis.Addr != ""
}

// LoadOptions reads an option file. The format follows the extension.
// Layout options are validated and defaulted.
func LoadOptions(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &opts)
	default:
		return opts, errors.New(errors.ErrCodeInvalidFormat, "unsupported option file extension %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}

	if v := os.Getenv(EnvRedisURL); v != "" {
		opts.Cache.Redis.URL = v
	}
	if err := opts.Layout.Validate(); err != nil {
		return opts, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// OpenCache opens the backend o selects: nothing when disabled, Redis when
// configured, otherwise a file cache. The result reports to the cache
// hooks.
func OpenCache(ctx context.Context, o CacheOptions) (cache.Cache, error) {
	switch {
	case o.Disabled:
		return cache.NewNullCache(), nil
	case o.UsesRedis():
		c, err := cache.NewRedisCache(ctx, o.Redis)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(c, "redis"), nil
	}

	dir := o.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(c, "file"), nil
}

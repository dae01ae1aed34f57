package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layered/pkg/cache"
	"github.com/matzehuels/layered/pkg/graph"
	graphio "github.com/matzehuels/layered/pkg/io"
	"github.com/matzehuels/layered/pkg/layout"
)

// Runner runs layouts through a cache.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different graphs and
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// layoutKeyOpts is what besides the graph determines a layout.
type layoutKeyOpts struct {
	layout.Options
	Prev string `json:"prev,omitempty"`
}

// Layout lays out a copy of g and returns it together with whether it came
// from the cache. g itself is never modified.
//
// The logger is opts.Logger, then the one in ctx, then the runner's.
// Options are validated before the cache is consulted, so invalid options
// fail the same way on every call. Cache failures are logged and otherwise
// ignored.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts layout.Options) (*graph.Graph, bool, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
		if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok {
			opts.Logger = l
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	key, err := r.key(g, opts)
	if err != nil {
		return nil, false, err
	}

	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		opts.Logger.Warn("cache lookup failed", "err", err)
	} else if hit {
		if cached, err := graphio.UnmarshalJSON(data); err == nil {
			opts.Logger.Debug("layout cache hit", "key", key[len(key)-12:])
			return cached, true, nil
		}
		// Undecodable entries are recomputed and overwritten.
	}

	start := time.Now()
	out := g.Clone()
	if err := layout.Layout(ctx, out, opts); err != nil {
		return nil, false, err
	}
	opts.Logger.Info("computed layout",
		"nodes", out.NodeCount(),
		"edges", out.EdgeCount(),
		"duration", time.Since(start).Round(time.Microsecond))

	if data, err := graphio.MarshalJSON(out); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache store failed", "err", err)
		}
	}
	return out, false, nil
}

func (r *Runner) key(g *graph.Graph, opts layout.Options) (string, error) {
	data, err := graphio.MarshalJSON(g)
	if err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	ko := layoutKeyOpts{Options: opts}
	if opts.PrevGraph != nil {
		prev, err := graphio.MarshalJSON(opts.PrevGraph)
		if err != nil {
			return "", fmt.Errorf("serialize previous graph for cache key: %w", err)
		}
		ko.Prev = cache.Hash(prev)
	}
	return r.Keyer.LayoutKey(cache.Hash(data), ko), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

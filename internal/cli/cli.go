package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layered/pkg/buildinfo"
	"github.com/matzehuels/layered/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layered"

	// defaultAddr is where "serve" listens unless told otherwise.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
	errOut io.Writer // spinner output
}

// New creates a new CLI instance whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Layered computes hierarchical drawings of directed graphs",
		Long:         `Layered computes layered (Sugiyama-style) drawings of directed graphs: ranks, crossing-reduced orders, coordinates, edge routes and cluster boxes. Input is JSON or Graphviz DOT; output is the same graph annotated with its layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are the cache flags shared by "layout" and "serve".
type cacheFlags struct {
	noCache bool
	redis   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redis, "redis", "", "cache in Redis at this URL (redis://host:6379/0) instead of on disk")
}

// apply overlays the flags on options read from a config file.
func (f *cacheFlags) apply(o *pipeline.CacheOptions) {
	if f.noCache {
		o.Disabled = true
	}
	if f.redis != "" {
		o.Redis.URL = f.redis
	}
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, o pipeline.CacheOptions) (*pipeline.Runner, error) {
	if o.Dir == "" && !o.UsesRedis() {
		if dir, err := layoutCacheDir(); err == nil {
			o.Dir = dir
		}
	}
	store, err := pipeline.OpenCache(ctx, o)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	if o.TTL > 0 {
		runner.TTL = o.TTL
	}
	return runner, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layered/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// layoutCacheDir is where the file cache keeps computed layouts.
func layoutCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "layouts"), nil
}

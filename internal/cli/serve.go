package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layered/internal/server"
	"github.com/matzehuels/layered/pkg/buildinfo"
	"github.com/matzehuels/layered/pkg/observability"
	"github.com/matzehuels/layered/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		config  string
		maxBody int64
		caching cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

POST /v1/layout takes {"graph": {...}, "options": {...}} and returns the
laid-out graph. GET /healthz reports liveness and GET /metrics exposes
Prometheus metrics. The server shuts down gracefully on SIGINT or SIGTERM.

Only the cache section of --config is used; layout options come with
each request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var o pipeline.CacheOptions
			if config != "" {
				opts, err := pipeline.LoadOptions(config)
				if err != nil {
					return err
				}
				o = opts.Cache
			} else if v := os.Getenv(pipeline.EnvRedisURL); v != "" {
				o.Redis.URL = v
			}
			caching.apply(&o)

			runner, err := c.newRunner(ctx, o)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			metrics := server.NewMetrics()
			observability.SetCacheHooks(metrics)
			defer observability.Reset()

			srv := server.New(runner, c.Logger,
				server.WithMetrics(metrics),
				server.WithMaxBodyBytes(maxBody),
			)

			printInfo("%s %s serving layouts on %s", appName, buildinfo.Short(), StyleLink.Render(addr))
			printNextStep("Try", fmt.Sprintf("curl -s -d @request.json http://localhost%s/v1/layout", addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVarP(&config, "config", "c", "", "option file (.toml, .yaml)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "largest accepted request body in bytes")
	caching.register(cmd)

	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/graph"
	graphio "github.com/matzehuels/layered/pkg/io"
	"github.com/matzehuels/layered/pkg/layout"
	"github.com/matzehuels/layered/pkg/pipeline"
)

// layoutFlags holds the layout option flags. Only flags the user set
// override the option file.
type layoutFlags struct {
	rankDir       string
	nodeSep       float64
	edgeSep       float64
	rankSep       float64
	marginX       float64
	marginY       float64
	acyclicer     string
	ranker        string
	align         string
	keepNodeOrder bool
	nodeOrder     []string
	noLabelSpace  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.rankDir, "rankdir", layout.DefaultRankDir, "rank direction: "+strings.Join(layout.RankDirs, ", "))
	fs.Float64Var(&f.nodeSep, "nodesep", layout.DefaultNodeSep, "horizontal separation between nodes")
	fs.Float64Var(&f.edgeSep, "edgesep", layout.DefaultEdgeSep, "horizontal separation between edges")
	fs.Float64Var(&f.rankSep, "ranksep", layout.DefaultRankSep, "separation between ranks")
	fs.Float64Var(&f.marginX, "marginx", 0, "margin left and right of the drawing")
	fs.Float64Var(&f.marginY, "marginy", 0, "margin above and below the drawing")
	fs.StringVar(&f.acyclicer, "acyclicer", layout.DefaultAcyclicer, "cycle breaking: "+strings.Join(layout.Acyclicers, ", "))
	fs.StringVar(&f.ranker, "ranker", layout.DefaultRanker, "ranking algorithm: "+strings.Join(layout.Rankers, ", "))
	fs.StringVar(&f.align, "align", "", "force one alignment: "+strings.Join(layout.Alignments, ", ")+" (default: balance all four)")
	fs.BoolVar(&f.keepNodeOrder, "keep-node-order", false, "seed the ordering from the input order")
	fs.StringSliceVar(&f.nodeOrder, "node-order", nil, "explicit initial node order (implies --keep-node-order)")
	fs.BoolVar(&f.noLabelSpace, "no-label-space", false, "do not reserve ranks for edge labels")
}

// apply overlays the flags the user changed on o.
func (f *layoutFlags) apply(cmd *cobra.Command, o *layout.Options) {
	fs := cmd.Flags()
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("rankdir", func() { o.RankDir = f.rankDir })
	set("nodesep", func() { o.NodeSep = f.nodeSep })
	set("edgesep", func() { o.EdgeSep = f.edgeSep })
	set("ranksep", func() { o.RankSep = f.rankSep })
	set("marginx", func() { o.MarginX = f.marginX })
	set("marginy", func() { o.MarginY = f.marginY })
	set("acyclicer", func() { o.Acyclicer = f.acyclicer })
	set("ranker", func() { o.Ranker = f.ranker })
	set("align", func() { o.Align = f.align })
	set("keep-node-order", func() { o.KeepNodeOrder = f.keepNodeOrder })
	set("node-order", func() {
		o.NodeOrder = f.nodeOrder
		o.KeepNodeOrder = true
	})
	set("no-label-space", func() {
		enabled := !f.noLabelSpace
		o.EdgeLabelSpace = &enabled
	})
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		config  string
		prev    string
		jobs    int
		flags   layoutFlags
		caching cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.dot]...",
		Short: "Compute the layered layout of one or more graphs",
		Long: `Compute the layered layout of one or more graphs.

Inputs are JSON graphs or Graphviz DOT files (.dot, .gv). Each result is
written as JSON: the input graph with node positions, edge routes and
cluster boxes filled in.

Options come from --config (TOML or YAML) and are overridden by flags.
Results are cached locally, or in Redis with --redis, keyed by graph and
options.`,
		Example: `  layered layout deps.dot
  layered layout --rankdir LR --ranksep 80 -o out/ a.json b.json
  layered layout --config layered.toml --prev old.layout.json graph.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{}
			if config != "" {
				var err error
				if opts, err = pipeline.LoadOptions(config); err != nil {
					return err
				}
			} else if v := os.Getenv(pipeline.EnvRedisURL); v != "" {
				opts.Cache.Redis.URL = v
			}
			flags.apply(cmd, &opts.Layout)
			caching.apply(&opts.Cache)

			if prev != "" {
				g, err := graphio.ImportJSON(prev)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidFormat, err, "load previous layout")
				}
				opts.Layout.PrevGraph = g
			}

			targets, err := outputPaths(args, output)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), targets, opts, jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, directory, or - for stdout (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&config, "config", "c", "", "option file (.toml, .yaml)")
	cmd.Flags().StringVar(&prev, "prev", "", "previous layout whose order is kept stable")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "graphs laid out in parallel")
	flags.register(cmd)
	caching.register(cmd)

	return cmd
}

// layoutTarget pairs an input file with its output path.
type layoutTarget struct {
	input  string
	output string // "-" is stdout
}

// outputPaths resolves where each input's layout goes. With several inputs
// the output must be a directory.
func outputPaths(inputs []string, output string) ([]layoutTarget, error) {
	isDir := strings.HasSuffix(output, string(filepath.Separator))
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		isDir = true
	}
	if len(inputs) > 1 && output != "" && !isDir {
		if output == "-" {
			return nil, fmt.Errorf("cannot write %d layouts to stdout", len(inputs))
		}
		isDir = true
	}

	targets := make([]layoutTarget, len(inputs))
	for i, in := range inputs {
		out := output
		switch {
		case output == "":
			out = defaultOutput(in)
		case isDir:
			out = filepath.Join(output, filepath.Base(defaultOutput(in)))
		}
		targets[i] = layoutTarget{input: in, output: out}
	}
	return targets, nil
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// readGraph loads a JSON or DOT graph, chosen by extension.
func readGraph(path string) (*graph.Graph, error) {
	var (
		g   *graph.Graph
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		g, err = graphio.ImportDOT(path)
	default:
		g, err = graphio.ImportJSON(path)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "load graph %s", path)
	}
	return g, nil
}

// runLayout lays out every target, at most jobs at a time. The first
// failure cancels the rest.
func (c *CLI) runLayout(ctx context.Context, targets []layoutTarget, opts pipeline.Options, jobs int) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.Cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, c.errOut, fmt.Sprintf("Laying out %d graphs...", len(targets)))
	spinner.Start()

	stats := make([]layoutStats, len(targets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(jobs, 1))
	for i, t := range targets {
		i, t := i, t
		eg.Go(func() error {
			g, err := readGraph(t.input)
			if err != nil {
				return err
			}
			out, cached, err := runner.Layout(egCtx, g, opts.Layout)
			if err != nil {
				return fmt.Errorf("%s: %w", t.input, err)
			}
			if err := writeLayout(out, t.output); err != nil {
				return err
			}
			stats[i] = layoutStats{
				nodes:  out.NodeCount(),
				edges:  out.EdgeCount(),
				width:  out.Width,
				height: out.Height,
				cached: cached,
			}
			return nil
		})
	}
	err = eg.Wait()
	spinner.Stop()
	if err != nil {
		if errors.IsGeometry(err) {
			printWarning("Node sizes or separations leave connected nodes overlapping")
		}
		return err
	}

	for i, t := range targets {
		if t.output == "-" {
			continue
		}
		printSuccess("Laid out %s", t.input)
		printFile(t.output)
		printStats(stats[i])
	}
	prog.done(fmt.Sprintf("Laid out %d graphs", len(targets)))
	return nil
}

func writeLayout(g *graph.Graph, path string) error {
	if path == "-" {
		return graphio.WriteJSON(g, os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return graphio.ExportJSON(g, path)
}

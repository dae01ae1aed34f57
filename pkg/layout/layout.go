package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/layered/pkg/dag"
	"github.com/matzehuels/layered/pkg/dag/order"
	"github.com/matzehuels/layered/pkg/dag/position"
	"github.com/matzehuels/layered/pkg/dag/rank"
	"github.com/matzehuels/layered/pkg/dag/transform"
	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/graph"
	"github.com/matzehuels/layered/pkg/observability"
)

// Layout computes a layered drawing of g and writes it back onto g: node
// centres, ranks and orders, edge polylines and label positions, cluster
// boxes, and the overall size.
//
// The caller graph is only written once every stage has succeeded. On error
// g is left exactly as it was. Configuration problems (bad options, edges
// touching clusters, manual layers that contradict minlen) are CONFIGURATION
// errors; a degenerate drawing in which an edge cannot be clipped to its
// node is a GEOMETRY error.
//
// The logger is taken from opts.Logger, then from ctx (see log.WithContext).
// Observability hooks are taken from ctx (see
// observability.WithLayoutHooks), falling back to the registered ones. ctx
// is not polled for cancellation: a run is short and synchronous.
func Layout(ctx context.Context, g *graph.Graph, opts Options) (err error) {
	if opts.Logger == nil {
		if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok {
			opts.Logger = l
		}
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := validateGraph(g); err != nil {
		return err
	}

	hooks := observability.LayoutFrom(ctx)
	start := time.Now()
	hooks.OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())
	defer func() { hooks.OnLayoutComplete(ctx, time.Since(start), err) }()

	r := &run{
		ctx:    ctx,
		logger: opts.Logger.With("run", uuid.NewString()[:8]),
		hooks:  hooks,
		g:      snapshot(g, &opts),
	}
	r.logger.Debug("layout started", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "ranker", opts.Ranker)
	if err := r.pipeline(g, &opts); err != nil {
		if errors.IsGeometry(err) {
			r.logger.Warn("layout failed", "err", err)
		}
		return err
	}

	copyBack(r.g, g)
	r.logger.Debug("layout finished", "width", g.Width, "height", g.Height, "duration", time.Since(start).Round(time.Microsecond))
	return nil
}

// positionNodes assigns coordinates in the "position" stage.
var positionNodes = position.Position

// run is the state of one layout call.
type run struct {
	ctx    context.Context
	logger *log.Logger
	hooks  observability.LayoutHooks
	g      *dag.Graph
}

// stage runs one pipeline step and reports its wall time.
func (r *run) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.hooks.OnStage(r.ctx, name, d)
	r.logger.Debug("stage", "name", name, "duration", d)
	return err
}

// step wraps a stage that cannot fail.
func (r *run) step(name string, fn func(*dag.Graph)) error {
	return r.stage(name, func() error {
		fn(r.g)
		return nil
	})
}

func (r *run) pipeline(caller *graph.Graph, opts *Options) error {
	s := r.g
	padded := opts.labelSpace()
	labelFactor := 1
	if padded {
		labelFactor = 2
	}

	steps := []func() error{
		func() error {
			if !padded {
				return nil
			}
			return r.step("make-space-for-edge-labels", transform.MakeSpaceForEdgeLabels)
		},
		func() error { return r.step("remove-self-edges", transform.RemoveSelfEdges) },
		func() error {
			return r.stage("acyclic", func() error {
				n, err := transform.BreakCycles(s)
				if err != nil {
					return errors.Wrap(errors.ErrCodeConfiguration, err, "break cycles")
				}
				if n > 0 {
					r.logger.Debug("reversed edges", "count", n)
				}
				return nil
			})
		},
		func() error { return r.step("nesting-run", transform.RunNesting) },
		func() error {
			return r.stage("rank", func() error {
				if err := rank.Run(s); err != nil {
					return errors.Wrap(errors.ErrCodeConfiguration, err, "rank")
				}
				if err := rank.ApplyLayers(s, labelFactor); err != nil {
					return errors.Wrap(errors.ErrCodeConfiguration, err, "apply manual layers")
				}
				return nil
			})
		},
		func() error { return r.step("inject-edge-label-proxies", transform.InjectEdgeLabelProxies) },
		func() error { return r.step("remove-empty-ranks", transform.RemoveEmptyRanks) },
		func() error { return r.step("nesting-cleanup", transform.CleanupNesting) },
		func() error { return r.step("normalize-ranks", transform.NormalizeRanks) },
		func() error { return r.step("assign-rank-min-max", transform.AssignRankMinMax) },
		func() error { return r.step("remove-edge-label-proxies", transform.RemoveEdgeLabelProxies) },
		func() error { return r.step("normalize", transform.Subdivide) },
		func() error { return r.step("parent-dummy-chains", transform.ParentDummyChains) },
		func() error { return r.step("add-border-segments", transform.AddBorderSegments) },
		func() error {
			return r.step("init-pins", func(s *dag.Graph) { assignPins(s, caller, opts) })
		},
		func() error {
			return r.step("order", func(s *dag.Graph) {
				order.Order(s)
				r.logger.Debug("ordered", "crossings", dag.CountCrossings(s, s.LayerMatrix()))
			})
		},
		func() error { return r.step("insert-self-edges", transform.InsertSelfEdges) },
		func() error { return r.step("adjust-coordinate-system", transform.AdjustCoordinateSystem) },
		func() error { return r.step("position", positionNodes) },
		func() error { return r.step("position-self-edges", transform.PositionSelfEdges) },
		func() error { return r.step("remove-border-nodes", transform.RemoveBorderNodes) },
		func() error { return r.step("denormalize", transform.Unsubdivide) },
		func() error {
			return r.step("fixup-edge-label-coords", func(s *dag.Graph) { transform.FixupEdgeLabelCoords(s, padded) })
		},
		func() error { return r.step("undo-coordinate-system", transform.UndoCoordinateSystem) },
		func() error { return r.step("translate", transform.Translate) },
		func() error {
			return r.stage("assign-node-intersects", func() error {
				if err := transform.AssignNodeIntersects(s); err != nil {
					return errors.Wrap(errors.ErrCodeGeometry, err,
						"cannot clip edge to its node; manual layer or order settings may have placed connected nodes on top of each other")
				}
				return nil
			})
		},
		func() error { return r.step("reverse-points", transform.ReversePoints) },
		func() error { return r.step("acyclic-undo", transform.UndoBreakCycles) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

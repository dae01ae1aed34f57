package layout

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layered/pkg/dag/position"
	"github.com/matzehuels/layered/pkg/dag/rank"
	"github.com/matzehuels/layered/pkg/dag/transform"
	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultRankDir   = "TB"
	DefaultNodeSep   = 50.0
	DefaultEdgeSep   = 20.0
	DefaultRankSep   = 50.0
	DefaultAcyclicer = transform.AcyclicerDFS
	DefaultRanker    = rank.NetworkSimplex
)

// Valid values of the enumerated options.
var (
	RankDirs   = []string{"TB", "BT", "LR", "RL"}
	Acyclicers = []string{transform.AcyclicerDFS, transform.AcyclicerGreedy}
	Rankers    = []string{rank.NetworkSimplex, rank.TightTree, rank.LongestPath}
	Alignments = []string{"UL", "UR", "DL", "DR"}
)

// =============================================================================
// Options
// =============================================================================

// Options configures a layout run. The zero value selects every default.
// Spacings left at zero take their default; margins default to zero.
type Options struct {
	RankDir string  `json:"rankdir,omitempty" toml:"rankdir" yaml:"rankdir,omitempty"`
	NodeSep float64 `json:"nodesep,omitempty" toml:"nodesep" yaml:"nodesep,omitempty"`
	EdgeSep float64 `json:"edgesep,omitempty" toml:"edgesep" yaml:"edgesep,omitempty"`
	RankSep float64 `json:"ranksep,omitempty" toml:"ranksep" yaml:"ranksep,omitempty"`
	MarginX float64 `json:"marginx,omitempty" toml:"marginx" yaml:"marginx,omitempty"`
	MarginY float64 `json:"marginy,omitempty" toml:"marginy" yaml:"marginy,omitempty"`

	Acyclicer string `json:"acyclicer,omitempty" toml:"acyclicer" yaml:"acyclicer,omitempty"`
	Ranker    string `json:"ranker,omitempty" toml:"ranker" yaml:"ranker,omitempty"`
	// Align picks one of the four coordinate candidates instead of
	// balancing them.
	Align string `json:"align,omitempty" toml:"align" yaml:"align,omitempty"`

	// KeepNodeOrder pins the order of original nodes within each rank to
	// their position in NodeOrder, or to insertion order when NodeOrder is
	// empty.
	KeepNodeOrder bool     `json:"keep_node_order,omitempty" toml:"keep_node_order" yaml:"keep_node_order,omitempty"`
	NodeOrder     []string `json:"node_order,omitempty" toml:"node_order" yaml:"node_order,omitempty"`

	// EdgeLabelSpace reserves a rank for edge labels by doubling every
	// minlen. Defaults to true.
	EdgeLabelSpace *bool `json:"edge_label_space,omitempty" toml:"edge_label_space" yaml:"edge_label_space,omitempty"`

	// Runtime options (not serialized)

	// PrevGraph is an earlier layout of a similar graph. Unless
	// KeepNodeOrder is set, nodes it shares with the input keep their
	// previous relative order.
	PrevGraph *graph.Graph `json:"-" toml:"-" yaml:"-"`
	Logger    *log.Logger  `json:"-" toml:"-" yaml:"-"`
}

// SetDefaults fills in every unset option. It is idempotent.
func (o *Options) SetDefaults() {
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	o.RankDir = strings.ToUpper(o.RankDir)
	if o.NodeSep == 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.EdgeSep == 0 {
		o.EdgeSep = DefaultEdgeSep
	}
	if o.RankSep == 0 {
		o.RankSep = DefaultRankSep
	}
	if o.Acyclicer == "" {
		o.Acyclicer = DefaultAcyclicer
	}
	o.Acyclicer = strings.ToLower(o.Acyclicer)
	if o.Ranker == "" {
		o.Ranker = DefaultRanker
	}
	o.Ranker = strings.ToLower(o.Ranker)
	o.Align = strings.ToUpper(o.Align)
	if o.EdgeLabelSpace == nil {
		enabled := true
		o.EdgeLabelSpace = &enabled
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option. Failures are
// CONFIGURATION errors.
func (o *Options) Validate() error {
	o.SetDefaults()
	spacings := []struct {
		name string
		v    float64
	}{
		{"nodesep", o.NodeSep},
		{"edgesep", o.EdgeSep},
		{"ranksep", o.RankSep},
		{"marginx", o.MarginX},
		{"marginy", o.MarginY},
	}
	for _, s := range spacings {
		if err := errors.ValidateSpacing(s.name, s.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateOneOf("rankdir", o.RankDir, false, RankDirs...); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("acyclicer", o.Acyclicer, false, Acyclicers...); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("ranker", o.Ranker, false, Rankers...); err != nil {
		return err
	}
	if _, ok := position.ParseAlignment(o.Align); !ok {
		return errors.New(errors.ErrCodeConfiguration, "invalid align %q (want one of %s)", o.Align, strings.Join(Alignments, ", "))
	}
	return nil
}

// labelSpace reports whether edge label ranks are reserved.
func (o *Options) labelSpace() bool {
	return o.EdgeLabelSpace == nil || *o.EdgeLabelSpace
}

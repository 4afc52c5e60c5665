package plot

import (
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// VolcanoOptions are the significance thresholds of a volcano plot.
type VolcanoOptions struct {
	Log2FCThreshold   float64 `yaml:"log2fc_threshold"`
	PValueThreshold   float64 `yaml:"neg_log10_pvalue_threshold"`
	MaxAbsoluteLog2FC float64 `yaml:"max_abs_log2fc"`
}

// DefaultVolcanoOptions returns |log2fc| > 1 and -log10(p) > 1, ignoring |log2fc| >= 10.
func DefaultVolcanoOptions() VolcanoOptions {
	return VolcanoOptions{Log2FCThreshold: 1, PValueThreshold: 1, MaxAbsoluteLog2FC: 10}
}

// Plotter draws figures of one data set.
type Plotter struct {
	DataSet        *core.DataSet
	Theme          Theme
	TSNEOptions    stats.TSNEOptions
	VolcanoOptions VolcanoOptions
	// Linkage clusters clustermap rows and columns.
	Linkage string
}

// New creates a plotter with default analysis settings.
func New(ds *core.DataSet, theme Theme) *Plotter {
	return &Plotter{
		DataSet:        ds,
		Theme:          theme.merged(),
		TSNEOptions:    stats.DefaultTSNEOptions(),
		VolcanoOptions: DefaultVolcanoOptions(),
		Linkage:        stats.Average,
	}
}

// annotate attaches the traceability fields every figure carries.
func (p *Plotter) annotate(fig *Figure, data *core.Table, method string) *Figure {
	fig.PlottingData = data
	fig.Preprocessing = core.Preprocessing{Steps: append([]core.Step(nil), p.DataSet.Preprocessing.Steps...)}
	fig.Method = method
	return fig
}

// groupColors assigns colorway colours to groups in order.
func (p *Plotter) groupColors(groups []string) map[string]string {
	out := make(map[string]string, len(groups))
	for i, g := range groups {
		out[g] = p.Theme.Color(i)
	}
	return out
}

func unsupported(method string, choices ...string) error {
	return core.UnsupportedMethod(method, strings.Join(choices, ", "))
}

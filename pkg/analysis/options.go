// Package analysis lists the plotting and statistic methods offered to users, the
// settings each one takes, and runs them against a data set.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/filter"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Setting kinds.
const (
	KindSelect   = "select"   // one of Options
	KindCheckbox = "checkbox" // "true" or "false"
	KindMetadata = "metadata" // a metadata column
	KindProtein  = "protein"  // a protein group of the working matrix
	KindNumber   = "number"
)

// Parameter names shared by methods comparing two groups.
const (
	ParamColumn = "column"
	ParamGroup1 = "group1"
	ParamGroup2 = "group2"
)

// Setting is one user supplied parameter of a method.
type Setting struct {
	Name     string
	Label    string
	Kind     string
	Options  []string
	Default  string
	Optional bool
	// Multiple settings take a comma separated list.
	Multiple bool
}

// Method is a plot or statistic a user can run.
type Method struct {
	Name  string
	Label string
	// BetweenTwoGroups methods also take a metadata column and two of its values.
	BetweenTwoGroups bool
	Settings         []Setting
	run              func(r *runner) (*Result, error)
}

// Result holds either a figure or a result table.
type Result struct {
	Figure *plot.Figure
	Table  *core.Table
}

func metadataSetting(name, label string, optional bool) Setting {
	return Setting{Name: name, Label: label, Kind: KindMetadata, Optional: optional}
}

func checkbox(name, label string) Setting {
	return Setting{Name: name, Label: label, Kind: KindCheckbox, Default: "false", Optional: true}
}

func selectSetting(name, label string, options ...string) Setting {
	return Setting{Name: name, Label: label, Kind: KindSelect, Options: options, Default: options[0]}
}

// PlottingOptions are the figure producing methods, in display order.
var PlottingOptions = []Method{
	{
		Name:     "pca",
		Label:    "Plot PCA",
		Settings: []Setting{metadataSetting("group", "Color according to", true), checkbox("circle", "Circle")},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.PCA(r.param("group"), r.flag("circle")))
		},
	},
	{
		Name:  "tsne",
		Label: "Plot t-SNE",
		Settings: []Setting{
			metadataSetting("group", "Color according to", true),
			checkbox("circle", "Circle"),
			{Name: "perplexity", Label: "Perplexity", Kind: KindNumber, Optional: true},
			{Name: "iterations", Label: "Iterations", Kind: KindNumber, Optional: true},
		},
		run: func(r *runner) (*Result, error) {
			perplexity, err := r.number("perplexity")
			if err != nil {
				return nil, err
			}
			iterations, err := r.number("iterations")
			if err != nil {
				return nil, err
			}
			return r.figure(r.plotter.TSNE(r.param("group"), r.flag("circle"), perplexity, int(iterations)))
		},
	},
	{
		Name:             "volcano",
		Label:            "Plot Volcano",
		BetweenTwoGroups: true,
		Settings:         []Setting{selectSetting("method", "Method", plot.VolcanoMethods...)},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.Volcano(r.param(ParamColumn), r.param(ParamGroup1), r.param(ParamGroup2), r.param("method")))
		},
	},
	{
		Name:  "sampledistribution",
		Label: "Plot Sampledistribution",
		Settings: []Setting{
			selectSetting("method", "Violinplot or Boxplot", plot.MethodViolin, plot.MethodBox),
			metadataSetting("color", "Color according to", true),
			checkbox("log_scale", "Log scale"),
		},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.SampleDistribution(r.param("method"), r.param("color"), r.flag("log_scale")))
		},
	},
	{
		Name:  "intensity",
		Label: "Plot Intensity",
		Settings: []Setting{
			{Name: "id", Label: "ProteinID/ProteinGroup", Kind: KindProtein},
			selectSetting("method", "Violinplot, Boxplot or Scatterplot", plot.MethodViolin, plot.MethodBox, plot.MethodScatter),
			metadataSetting("group", "Group", false),
			checkbox("log_scale", "Log scale"),
		},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.Intensity(r.param("id"), r.param("group"), r.param("method"), r.flag("log_scale")))
		},
	},
	{
		Name:     "correlation",
		Label:    "Plot Correlation Matrix",
		Settings: []Setting{selectSetting("method", "Method", stats.CorrelationMethods...)},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.CorrelationMatrix(r.param("method")))
		},
	},
	{
		Name:     "clustermap",
		Label:    "Plot Clustermap",
		Settings: []Setting{
			{Name: "label_bar", Label: "Label bar", Kind: KindMetadata, Optional: true, Multiple: true},
		},
		run: func(r *runner) (*Result, error) {
			var bars []string
			if v := r.param("label_bar"); v != "" {
				bars = strings.Split(v, ",")
			}
			return r.figure(r.plotter.Clustermap(bars))
		},
	},
	{
		Name:     "dendrogram",
		Label:    "Plot Dendrogram",
		Settings: []Setting{selectSetting("linkagefun", "Linkage", stats.Complete, stats.Single, stats.Average)},
		run: func(r *runner) (*Result, error) {
			return r.figure(r.plotter.Dendrogram(r.param("linkagefun")))
		},
	},
}

// StatisticOptions are the table producing methods, in display order.
var StatisticOptions = []Method{
	{
		Name:             "ttest",
		Label:            "Differential Expression Analysis - T-test",
		BetweenTwoGroups: true,
		run: func(r *runner) (*Result, error) {
			return r.comparisons(stats.TTest(r.ds, r.param(ParamColumn), r.param(ParamGroup1), r.param(ParamGroup2)))
		},
	},
	{
		Name:             "wald",
		Label:            "Differential Expression Analysis - Wald-test",
		BetweenTwoGroups: true,
		run: func(r *runner) (*Result, error) {
			return r.comparisons(stats.Wald(r.ds, r.param(ParamColumn), r.param(ParamGroup1), r.param(ParamGroup2)))
		},
	},
	{
		Name:  "anova",
		Label: "ANOVA",
		Settings: []Setting{
			metadataSetting(ParamColumn, "A variable from the metadata to calculate ANOVA", false),
			checkbox("tukey", "Follow-up Tukey"),
		},
		run: func(r *runner) (*Result, error) {
			return r.table(stats.Anova(r.ds, r.param(ParamColumn), nil, r.flag("tukey")))
		},
	},
	{
		Name:  "tukey",
		Label: "Tukey-Test",
		Settings: []Setting{
			{Name: "id", Label: "ProteinID/ProteinGroup", Kind: KindProtein},
			metadataSetting("group", "A variable from the metadata to calculate Tukey-Test", false),
		},
		run: func(r *runner) (*Result, error) {
			return r.table(stats.Anova(r.ds, r.param("group"), []string{r.param("id")}, true))
		},
	},
	{
		Name:     "kruskal",
		Label:    "Kruskal-Wallis H-test",
		Settings: []Setting{metadataSetting(ParamColumn, "A variable from the metadata", false)},
		run: func(r *runner) (*Result, error) {
			return r.table(stats.KruskalWallis(r.ds, r.param(ParamColumn), nil))
		},
	},
	{
		Name:  "describe",
		Label: "Sample summary",
		run: func(r *runner) (*Result, error) {
			return r.table(stats.ToTable(stats.Describe(r.ds.Matrix)))
		},
	},
	{
		Name:  "preprocessing",
		Label: "Preprocessing info",
		run: func(r *runner) (*Result, error) {
			return &Result{Table: filter.Info(r.ds)}, nil
		},
	},
}

// Lookup finds a plotting or statistic method by name.
func Lookup(name string) (Method, error) {
	for _, set := range [][]Method{PlottingOptions, StatisticOptions} {
		for _, m := range set {
			if m.Name == name {
				return m, nil
			}
		}
	}
	return Method{}, core.UnsupportedMethod(name, strings.Join(Names(), ", "))
}

// Names returns every method name, plots first.
func Names() []string {
	var out []string
	for _, set := range [][]Method{PlottingOptions, StatisticOptions} {
		for _, m := range set {
			out = append(out, m.Name)
		}
	}
	return out
}

// IsPlot reports whether the method produces a figure.
func (m Method) IsPlot() bool {
	for _, p := range PlottingOptions {
		if p.Name == m.Name {
			return true
		}
	}
	return false
}

// AllSettings returns the method's settings, preceded by the group selection of
// BetweenTwoGroups methods.
func (m Method) AllSettings() []Setting {
	if !m.BetweenTwoGroups {
		return m.Settings
	}
	groups := []Setting{
		metadataSetting(ParamColumn, "Grouping variable", false),
		{Name: ParamGroup1, Label: "Group 1", Kind: KindSelect},
		{Name: ParamGroup2, Label: "Group 2", Kind: KindSelect},
	}
	return append(groups, m.Settings...)
}

// Choices lists the values a setting accepts for ds. Metadata settings list the
// metadata columns, protein settings the working matrix protein groups. Group settings
// of a BetweenTwoGroups method list the values of column.
func (s Setting) Choices(ds *core.DataSet, column string) []string {
	switch s.Kind {
	case KindSelect:
		if s.Name == ParamGroup1 || s.Name == ParamGroup2 {
			if column == "" {
				return nil
			}
			values, _ := ds.Metadata.Unique(column)
			sort.Strings(values)
			return values
		}
		return s.Options
	case KindMetadata:
		var out []string
		for _, h := range ds.Metadata.Header {
			if h != core.SampleColumn {
				out = append(out, h)
			}
		}
		return out
	case KindProtein:
		return ds.Matrix.Proteins
	case KindCheckbox:
		return []string{"true", "false"}
	}
	return nil
}

func (s Setting) validate(ds *core.DataSet, params map[string]string) error {
	v, ok := params[s.Name]
	if !ok || v == "" {
		if s.Optional || s.Default != "" {
			return nil
		}
		return &core.ValidationError{Field: s.Name, Message: "is required"}
	}
	switch s.Kind {
	case KindSelect, KindCheckbox:
		choices := s.Choices(ds, params[ParamColumn])
		if !contains(choices, v) {
			if s.Kind == KindSelect && (s.Name != ParamGroup1 && s.Name != ParamGroup2) {
				return core.UnsupportedMethod(v, strings.Join(choices, ", "))
			}
			return &core.ValidationError{Field: s.Name, Message: fmt.Sprintf("%q is not one of %s", v, strings.Join(choices, ", "))}
		}
	case KindMetadata:
		for _, column := range strings.Split(v, ",") {
			if ds.Metadata.ColumnIndex(column) < 0 {
				return fmt.Errorf("%w: %s", core.ErrUnknownColumn, column)
			}
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

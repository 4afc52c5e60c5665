package analysis

import (
	"fmt"
	"strconv"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Run validates params against the settings of the named method and runs it on ds.
// Absent parameters take the setting default.
func Run(ds *core.DataSet, plotter *plot.Plotter, name string, params map[string]string) (*Result, error) {
	m, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]string{}
	}
	for _, s := range m.AllSettings() {
		if err := s.validate(ds, params); err != nil {
			return nil, err
		}
	}
	if m.BetweenTwoGroups && params[ParamGroup1] == params[ParamGroup2] {
		return nil, &core.ValidationError{Field: ParamGroup2, Message: "has to differ from group1"}
	}
	if plotter == nil {
		plotter = plot.New(ds, plot.DefaultTheme())
	}

	r := &runner{ds: ds, plotter: plotter, method: m, params: params}
	res, err := m.run(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return res, nil
}

type runner struct {
	ds      *core.DataSet
	plotter *plot.Plotter
	method  Method
	params  map[string]string
}

// param returns the parameter value or the setting default.
func (r *runner) param(name string) string {
	if v, ok := r.params[name]; ok && v != "" {
		return v
	}
	for _, s := range r.method.AllSettings() {
		if s.Name == name {
			return s.Default
		}
	}
	return ""
}

func (r *runner) flag(name string) bool {
	v, _ := strconv.ParseBool(r.param(name))
	return v
}

func (r *runner) number(name string) (float64, error) {
	v := r.param(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &core.ValidationError{Field: name, Message: fmt.Sprintf("%q is not a number", v)}
	}
	return f, nil
}

func (r *runner) figure(fig *plot.Figure, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return &Result{Figure: fig}, nil
}

func (r *runner) table(t *core.Table, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return &Result{Table: t}, nil
}

func (r *runner) comparisons(rows []stats.Comparison, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return r.table(stats.ToTable(rows))
}

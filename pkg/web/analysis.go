package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ChrisMcGann/ProtStats/pkg/analysis"
	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/render"
	"github.com/ChrisMcGann/ProtStats/pkg/writer/xlsx"
)

// resultRows is the number of result table rows shown on a result page.
const resultRows = 100

// Analysis lists the plotting and statistic methods.
func (h *handler) Analysis(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}

	output := struct {
		Plots      []analysis.Method
		Statistics []analysis.Method
		Results    []*Saved
	}{
		analysis.PlottingOptions,
		analysis.StatisticOptions,
		s.Results,
	}

	Render(h, w, r, "Analysis", "analysis.html", output, nil)
}

type field struct {
	analysis.Setting
	Choices []string
	Value   string
}

type methodPage struct {
	Method analysis.Method
	// Column is the grouping variable of a BetweenTwoGroups method, empty until chosen.
	Column        string
	ChooseColumn  bool
	ColumnChoices []string
	Fields        []field
}

func methodForm(ds *core.DataSet, m analysis.Method, params map[string]string) methodPage {
	page := methodPage{Method: m, Column: params[analysis.ParamColumn]}
	for _, st := range m.AllSettings() {
		if m.BetweenTwoGroups && st.Name == analysis.ParamColumn {
			page.ColumnChoices = st.Choices(ds, "")
			continue
		}
		value := st.Default
		if v, ok := params[st.Name]; ok {
			value = v
		}
		page.Fields = append(page.Fields, field{Setting: st, Choices: st.Choices(ds, page.Column), Value: value})
	}
	page.ChooseColumn = m.BetweenTwoGroups && page.Column == ""
	return page
}

// Method shows the settings form of one method. Methods comparing two groups first ask
// for the grouping variable.
func (h *handler) Method(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	m, err := analysis.Lookup(mux.Vars(r)["method"])
	if err != nil {
		HTTPError(h, w, r, fmt.Errorf("%w: %v", errNotFound, err))
		return
	}

	params := map[string]string{}
	if column := r.URL.Query().Get(analysis.ParamColumn); column != "" {
		if s.DataSet.Metadata.ColumnIndex(column) < 0 {
			HTTPError(h, w, r, fmt.Errorf("%w: %s", core.ErrUnknownColumn, column))
			return
		}
		params[analysis.ParamColumn] = column
	}

	Render(h, w, r, m.Label, "method.html", methodForm(s.DataSet, m, params), nil)
}

// MethodPost runs a method and keeps its result in the session.
func (h *handler) MethodPost(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	m, err := analysis.Lookup(mux.Vars(r)["method"])
	if err != nil {
		HTTPError(h, w, r, fmt.Errorf("%w: %v", errNotFound, err))
		return
	}
	if err := r.ParseForm(); err != nil {
		HTTPError(h, w, r, err, http.StatusBadRequest)
		return
	}

	params := formParams(m, r)
	res, err := analysis.Run(s.DataSet, h.Config.Plotter(s.DataSet), m.Name, params)
	if err != nil {
		h.warn(w, r, m.Label, "method.html", methodForm(s.DataSet, m, params), err)
		return
	}

	saved := &Saved{ID: len(s.Results) + 1, Method: m.Name, Params: params, Result: res}
	s.Results = append(s.Results, saved)
	http.Redirect(w, r, fmt.Sprintf("/results/%d", saved.ID), http.StatusSeeOther)
}

// formParams collects the posted settings of m. Unchecked boxes are "false" and
// multiple choices are joined with commas.
func formParams(m analysis.Method, r *http.Request) map[string]string {
	params := map[string]string{}
	for _, st := range m.AllSettings() {
		values := r.PostForm[st.Name]
		if st.Kind == analysis.KindCheckbox {
			params[st.Name] = "false"
			if len(values) > 0 && values[0] != "" && values[0] != "false" {
				params[st.Name] = "true"
			}
			continue
		}
		var kept []string
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			params[st.Name] = strings.Join(kept, ",")
		}
	}
	return params
}

// saved resolves the {id} route variable.
func (h *handler) saved(s *Session, r *http.Request) (*Saved, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, fmt.Errorf("%w: result %q", errNotFound, mux.Vars(r)["id"])
	}
	saved := s.Result(id)
	if saved == nil {
		return nil, fmt.Errorf("%w: result %d", errNotFound, id)
	}
	return saved, nil
}

func (h *handler) ResultPage(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	saved, err := h.saved(s, r)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	m, _ := analysis.Lookup(saved.Method)

	output := struct {
		*Saved
		Label         string
		Table         *preview
		Preprocessing []core.Step
	}{
		Saved: saved,
		Label: m.Label,
		Table: newPreview(saved.Result.Table, resultRows),
	}
	if saved.Figure != nil {
		output.Preprocessing = saved.Figure.Preprocessing.Steps
	}

	Render(h, w, r, m.Label, "result.html", output, nil)
}

func (h *handler) figure(s *Session, r *http.Request) (*Saved, error) {
	saved, err := h.saved(s, r)
	if err != nil {
		return nil, err
	}
	if saved.Figure == nil {
		return nil, fmt.Errorf("%w: result %d has no figure", errNotFound, saved.ID)
	}
	return saved, nil
}

// FigurePNG draws a saved figure. The size may be set with the width and height query
// parameters.
func (h *handler) FigurePNG(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	saved, err := h.figure(s, r)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	width, height := render.DefaultWidth, render.DefaultHeight
	if v, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && v > 0 {
		width = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && v > 0 {
		height = v
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, saved.Figure, width, height); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	attachment(w, "image/png", "", &buf)
}

func (h *handler) FigureJSON(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	saved, err := h.figure(s, r)
	if err != nil {
		JSONError(h, w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := render.JSON(&buf, saved.Figure); err != nil {
		JSONError(h, w, r, err)
		return
	}
	attachment(w, "application/json", "", &buf)
}

// ResultTable downloads the result table or the plotting data of a figure as csv or
// xlsx.
func (h *handler) ResultTable(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	saved, err := h.saved(s, r)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	vars := mux.Vars(r)

	var t *core.Table
	switch vars["file"] {
	case "table":
		t = saved.Result.Table
	case "plotting_data":
		if saved.Figure != nil {
			t = saved.Figure.PlottingData
		}
	}
	if t == nil {
		HTTPError(h, w, r, fmt.Errorf("%w: result %d has no %s", errNotFound, saved.ID, vars["file"]))
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", saved.Name(), vars["file"], vars["ext"])
	var buf bytes.Buffer
	if vars["ext"] == "xlsx" {
		if err := xlsx.WriteTable(&buf, t); err != nil {
			HTTPError(h, w, r, err)
			return
		}
		attachment(w, xlsxContentType, filename, &buf)
		return
	}
	if err := t.WriteCSV(&buf); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	attachment(w, "text/csv", filename, &buf)
}

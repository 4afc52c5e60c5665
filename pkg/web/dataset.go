package web

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/filter"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/render"
)

// requireDataSet sends the caller back to the import when no data set is loaded.
func requireDataSet(w http.ResponseWriter, r *http.Request, s *Session) bool {
	if s.DataSet != nil {
		return true
	}
	http.Redirect(w, r, "/import", http.StatusSeeOther)
	return false
}

// DataSet shows the raw input, the metadata and the working matrix.
func (h *handler) DataSet(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	ds := s.DataSet

	output := struct {
		Software        string
		Filename        string
		RawInput        *preview
		Metadata        *preview
		Matrix          *preview
		MissingFraction float64
		Info            *preview
	}{
		Software:        ds.Software,
		Filename:        s.Filename,
		RawInput:        newPreview(ds.RawInput, previewRows),
		Metadata:        newPreview(ds.Metadata, previewRows),
		Matrix:          newPreview(ds.Matrix.Table(), previewRows),
		MissingFraction: ds.Matrix.MissingFraction(),
		Info:            newPreview(filter.Info(ds), -1),
	}

	Render(h, w, r, "DataSet", "dataset.html", output, nil)
}

// RawDistribution draws the per sample intensity distribution of the raw matrix.
func (h *handler) RawDistribution(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.DataSet == nil {
		HTTPError(h, w, r, errNoDataSet)
		return
	}
	raw := *s.DataSet
	raw.Matrix = raw.RawMatrix
	raw.Preprocessing = core.Preprocessing{}

	fig, err := h.Config.Plotter(&raw).SampleDistribution(plot.MethodBox, "", true)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, fig, render.DefaultWidth, render.DefaultHeight); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	attachment(w, "image/png", "", &buf)
}

type preprocessPage struct {
	Samples        []string
	Normalizations []string
	Imputations    []string
	Info           *preview
	Missing        bool
}

func preprocessChoices(ds *core.DataSet) preprocessPage {
	return preprocessPage{
		Samples:        ds.Matrix.Samples,
		Normalizations: filter.Normalizations,
		Imputations:    filter.Imputations,
		Info:           newPreview(filter.Info(ds), -1),
		Missing:        ds.Matrix.HasMissing(),
	}
}

// Preprocess shows the preprocessing form and the steps applied so far.
func (h *handler) Preprocess(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	Render(h, w, r, "Preprocessing", "preprocess.html", preprocessChoices(s.DataSet), nil)
}

func (h *handler) PreprocessPost(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	cfg, err := parsePreprocessing(r)
	if err == nil {
		err = cfg.Apply(s.DataSet)
	}
	if err != nil {
		h.warn(w, r, "Preprocessing", "preprocess.html", preprocessChoices(s.DataSet), err)
		return
	}
	http.Redirect(w, r, "/preprocess", http.StatusSeeOther)
}

// PreprocessReset restores the raw matrix.
func (h *handler) PreprocessReset(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if !requireDataSet(w, r, s) {
		return
	}
	filter.Reset(s.DataSet)
	http.Redirect(w, r, "/preprocess", http.StatusSeeOther)
}

func parsePreprocessing(r *http.Request) (*filter.Config, error) {
	if err := r.ParseForm(); err != nil {
		return nil, &core.ValidationError{Field: "form", Message: err.Error()}
	}
	cfg := &filter.Config{
		RemoveContaminations: r.PostFormValue("remove_contaminations") != "",
		Subset:               r.PostFormValue("subset") != "",
		RemoveSamples:        r.PostForm["remove_samples"],
		Log2Transform:        r.PostFormValue("log2") != "",
		Normalization:        r.PostFormValue("normalization"),
		Imputation:           r.PostFormValue("imputation"),
	}
	if v := strings.TrimSpace(r.PostFormValue("min_valid")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &core.ValidationError{Field: "min_valid", Message: "has to be a number between 0 and 1"}
		}
		cfg.MinValidFraction = f
	}
	return cfg, nil
}

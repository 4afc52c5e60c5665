package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/loader"
	"github.com/ChrisMcGann/ProtStats/pkg/reader/table"
	"github.com/ChrisMcGann/ProtStats/pkg/writer/xlsx"
)

// multipartMemory is the part of an upload kept in memory, the rest spills to disk.
const multipartMemory = 32 << 20

type importPage struct {
	Software []*loader.Option
	Selected string
	Filename string
	Preview  *preview
}

func (h *handler) importPage(s *Session) importPage {
	var options []*loader.Option
	for _, name := range loader.Software() {
		o, _ := loader.Lookup(name)
		options = append(options, o)
	}
	return importPage{
		Software: options,
		Selected: s.Software,
		Filename: s.Filename,
		Preview:  newPreview(s.Upload, previewRows),
	}
}

// Import is step 1: pick the software and upload its export.
func (h *handler) Import(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	Render(h, w, r, "Import Data", "import.html", h.importPage(s), nil)
}

func (h *handler) ImportPost(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	t, filename, err := h.readUpload(w, r, "file")
	software := r.FormValue("software")
	if err == nil {
		err = loader.Check(t, software)
	}
	if err != nil {
		page := h.importPage(s)
		page.Selected = software
		h.warn(w, r, "Import Data", "import.html", page, err)
		return
	}

	s.Reset()
	s.Software, s.Filename, s.Upload = software, filename, t
	http.Redirect(w, r, "/import/columns", http.StatusSeeOther)
}

// readUpload parses the uploaded file in the named form field.
func (h *handler) readUpload(w http.ResponseWriter, r *http.Request, field string) (*core.Table, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, "", &core.ValidationError{Field: field, Message: fmt.Sprintf("could not read upload: %v", err)}
	}
	f, fh, err := r.FormFile(field)
	if err != nil {
		return nil, "", &core.ValidationError{Field: field, Message: "no file uploaded"}
	}
	defer f.Close()

	t, err := table.Read(f, fh.Filename)
	if err != nil {
		return nil, "", err
	}
	return t, fh.Filename, nil
}

type columnsPage struct {
	Software  string
	Filename  string
	Other     bool
	Intensity []string
	Index     []string
	Preview   *preview
}

// Columns is step 2: choose the intensity and index columns.
func (h *handler) Columns(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Upload == nil {
		http.Redirect(w, r, "/import", http.StatusSeeOther)
		return
	}
	page, err := columnChoices(s)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	Render(h, w, r, "Select Columns", "columns.html", page, nil)
}

func columnChoices(s *Session) (columnsPage, error) {
	o, err := loader.Lookup(s.Software)
	if err != nil {
		return columnsPage{}, err
	}
	page := columnsPage{
		Software: s.Software,
		Filename: s.Filename,
		Other:    s.Software == "Other",
		Preview:  newPreview(s.Upload, previewRows),
	}
	if page.Other {
		page.Intensity = s.Upload.Header
		page.Index = s.Upload.Header
		return page, nil
	}
	page.Intensity = o.IntensityColumns
	for _, c := range o.IndexColumns {
		if s.Upload.ColumnIndex(c) >= 0 {
			page.Index = append(page.Index, c)
		}
	}
	if len(page.Index) == 0 {
		page.Index = o.IndexColumns
	}
	return page, nil
}

func (h *handler) ColumnsPost(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Upload == nil {
		http.Redirect(w, r, "/import", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		HTTPError(h, w, r, err, http.StatusBadRequest)
		return
	}

	sel := loader.Selection{
		Intensity: r.PostForm["intensity"],
		Index:     r.PostFormValue("index"),
	}
	src, err := loader.Load(s.Upload, s.Software, sel)
	if err == nil && len(src.Samples) == 0 {
		err = &core.ValidationError{Field: "intensity", Message: "no intensity columns matched"}
	}
	if err != nil {
		page, perr := columnChoices(s)
		if perr != nil {
			HTTPError(h, w, r, perr)
			return
		}
		h.warn(w, r, "Select Columns", "columns.html", page, err)
		return
	}

	s.Source = src
	s.Metadata, s.MetadataFilename, s.DataSet, s.Results = nil, "", nil, nil
	http.Redirect(w, r, "/import/metadata", http.StatusSeeOther)
}

type metadataPage struct {
	Samples       []string
	Filename      string
	Preview       *preview
	SampleColumns []string
}

// Metadata is step 3: upload sample metadata, or go on without it.
func (h *handler) Metadata(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Source == nil {
		http.Redirect(w, r, "/import/columns", http.StatusSeeOther)
		return
	}
	Render(h, w, r, "Upload Metadata", "metadata.html", metadataChoices(s), nil)
}

func metadataChoices(s *Session) metadataPage {
	page := metadataPage{
		Samples:  s.Source.Samples,
		Filename: s.MetadataFilename,
		Preview:  newPreview(s.Metadata, previewRows),
	}
	if s.Metadata != nil {
		page.SampleColumns = core.ValidSampleColumns(s.Metadata, s.Source.Samples)
	}
	return page
}

func (h *handler) MetadataPost(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Source == nil {
		http.Redirect(w, r, "/import/columns", http.StatusSeeOther)
		return
	}
	t, filename, err := h.readUpload(w, r, "file")
	if err == nil && len(core.ValidSampleColumns(t, s.Source.Samples)) == 0 {
		err = fmt.Errorf("%w: no column of %s lists the sample names of the proteomics data", core.ErrNoSampleOverlap, filename)
	}
	if err != nil {
		h.warn(w, r, "Upload Metadata", "metadata.html", metadataChoices(s), err)
		return
	}

	s.Metadata, s.MetadataFilename = t, filename
	http.Redirect(w, r, "/import/metadata", http.StatusSeeOther)
}

// CreateDataSet joins the uploaded metadata on the chosen sample column.
func (h *handler) CreateDataSet(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Source == nil || s.Metadata == nil {
		http.Redirect(w, r, "/import/metadata", http.StatusSeeOther)
		return
	}
	ds, err := core.NewDataSet(s.Source, s.Metadata, r.FormValue("sample_column"))
	if err != nil {
		h.warn(w, r, "Upload Metadata", "metadata.html", metadataChoices(s), err)
		return
	}
	s.DataSet, s.Results = ds, nil
	http.Redirect(w, r, "/dataset", http.StatusSeeOther)
}

// CreateWithoutMetadata builds the data set with a sample only metadata table.
func (h *handler) CreateWithoutMetadata(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Source == nil {
		http.Redirect(w, r, "/import/columns", http.StatusSeeOther)
		return
	}
	ds, err := core.NewDataSet(s.Source, nil, "")
	if err != nil {
		h.warn(w, r, "Upload Metadata", "metadata.html", metadataChoices(s), err)
		return
	}
	s.Metadata, s.MetadataFilename = nil, ""
	s.DataSet, s.Results = ds, nil
	http.Redirect(w, r, "/dataset", http.StatusSeeOther)
}

// MetadataTemplate downloads metadata.xlsx listing the samples of the loaded file.
func (h *handler) MetadataTemplate(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.Source == nil {
		HTTPError(h, w, r, errNoDataSet)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteMetadataTemplate(&buf, s.Source.Samples); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	attachment(w, xlsxContentType, "metadata.xlsx", &buf)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// warn redisplays a wizard step with err shown above the form.
func (h *handler) warn(w http.ResponseWriter, r *http.Request, title, tpl string, data interface{}, err error) {
	h.log.Println(r.Host, r.URL.Path, ":", err)
	opts := NewRenderOpts()
	opts.Flash = err.Error()
	opts.StatusCode = statusCode(err)
	Render(h, w, r, title, tpl, data, opts)
}

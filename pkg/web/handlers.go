package web

import (
	"net/http"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/writer/sqlite"
)

// previewRows is the number of table rows shown on the import and data set pages.
const previewRows = 5

// preview is a table excerpt with the shape of the full table.
type preview struct {
	Header  []string
	Rows    [][]string
	NumRows int
	NumCols int
}

// newPreview keeps the first n rows of t, all of them when n is negative.
func newPreview(t *core.Table, n int) *preview {
	if t == nil {
		return nil
	}
	rows, cols := t.Shape()
	if n < 0 {
		n = rows
	}
	head := t.Head(n)
	return &preview{Header: head.Header, Rows: head.Rows, NumRows: rows, NumCols: cols}
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	output := struct {
		Software string
		Filename string
		Loaded   bool
		Results  int
	}{
		Software: s.Software,
		Filename: s.Filename,
		Loaded:   s.DataSet != nil,
		Results:  len(s.Results),
	}

	Render(h, w, r, h.Global.Site, "index.html", output, nil)
}

// NewSession discards the data of the caller's session.
func (h *handler) NewSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	s.Reset()
	http.Redirect(w, r, "/import", http.StatusSeeOther)
}

// Export downloads the data set and every saved result as a SQLite file.
func (h *handler) Export(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Acquire(w, r)
	defer s.Release()

	if s.DataSet == nil {
		HTTPError(h, w, r, errNoDataSet)
		return
	}

	path, cleanup, err := tempPath("protstats-*.db")
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	defer cleanup()

	writer, err := sqlite.NewWriter(path)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	defer writer.Close()

	if err := writer.WriteDataSet(s.DataSet); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	for _, saved := range s.Results {
		if err := writer.WriteResult(saved.Name(), saved.Data()); err != nil {
			HTTPError(h, w, r, err)
			return
		}
	}
	writer.SetDescription(s.Filename)
	if err := writer.Finalize(); err != nil {
		HTTPError(h, w, r, err)
		return
	}

	serveFile(h, w, r, path, "application/vnd.sqlite3", "protstats_session.db")
}

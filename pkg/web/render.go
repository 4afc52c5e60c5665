package web

import (
	"bytes"
	"net/http"
)

type Page struct {
	Title string
	Site  string
	// Flash is a warning shown above the page content.
	Flash string
	Data  interface{}
}

type renderOpts struct {
	Flash      string
	StatusCode int
}

func NewRenderOpts() *renderOpts {
	return &renderOpts{
		StatusCode: http.StatusOK,
	}
}

func Render(h *handler, w http.ResponseWriter, r *http.Request, title string, tpl string, data interface{}, opts *renderOpts) {
	if opts == nil {
		opts = NewRenderOpts()
	}

	page := Page{
		Title: title,
		Site:  h.Global.Site,
		Flash: opts.Flash,
		Data:  data,
	}

	renderHTML(h, w, r, tpl, page, *opts)
}

func renderHTML(h *handler, w http.ResponseWriter, r *http.Request, tpl string, page Page, opts renderOpts) {
	// Render into a buffer so a template error can still produce an error page
	var buf bytes.Buffer
	if err := h.Template(tpl).Execute(&buf, page); err != nil {
		HTTPError(h, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(opts.StatusCode)
	buf.WriteTo(w)
}

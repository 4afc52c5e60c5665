package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

const (
	BaseFilename = "_base.html"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// handler provides global values that must be
// safe for concurrent use from multiple goroutines
// to each handler method.
type handler struct {
	*Global

	router *mux.Router

	// Mutex protected values
	mu       sync.RWMutex
	template map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"percent": func(f float64) float64 { return 100 * f },
	"join":    strings.Join,
}

// Template returns the named page template layered on the base template, parsing it on
// first use.
func (h *handler) Template(templateFilename string) *template.Template {
	h.mu.RLock()
	tpl, ok := h.template[templateFilename]
	h.mu.RUnlock()
	if ok {
		return tpl
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if tpl, ok := h.template[templateFilename]; ok {
		return tpl
	}
	if h.template == nil {
		h.template = make(map[string]*template.Template)
	}

	base, ok := h.template[BaseFilename]
	if !ok {
		h.Global.log.Println("Initializing HTML templates")
		var err error
		base, err = template.New(BaseFilename).Funcs(templateFuncs).ParseFS(embeddedTemplates, "templates/"+BaseFilename)
		if err != nil {
			panic(fmt.Errorf(`handler.go:Template: %s`, err))
		}
		h.template[BaseFilename] = base
	}

	// Clone the base so page level define statements do not leak between pages
	tpl, err := template.Must(base.Clone()).ParseFS(embeddedTemplates, "templates/"+templateFilename)
	if err != nil {
		panic(fmt.Errorf(`handler.go:Template: %s`, err))
	}
	h.template[templateFilename] = tpl
	return tpl
}

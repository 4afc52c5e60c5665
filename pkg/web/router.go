package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

// Router builds the wizard's HTTP handler.
func Router(config *Global) (http.Handler, error) {
	router := mux.NewRouter()
	POST := router.Methods("POST").Subrouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h := &handler{Global: config, router: router}

	GET.HandleFunc("/", h.Index).Name("index")
	GET.HandleFunc("/import", h.Import).Name("import")
	GET.HandleFunc("/import/columns", h.Columns).Name("columns")
	GET.HandleFunc("/import/metadata", h.Metadata).Name("metadata")
	GET.HandleFunc("/import/template", h.MetadataTemplate)
	GET.HandleFunc("/dataset", h.DataSet).Name("dataset")
	GET.HandleFunc("/dataset/distribution.png", h.RawDistribution)
	GET.HandleFunc("/preprocess", h.Preprocess).Name("preprocess")
	GET.HandleFunc("/analysis", h.Analysis).Name("analysis")
	GET.HandleFunc("/analysis/{method}", h.Method).Name("method")
	GET.HandleFunc("/results/{id:[0-9]+}", h.ResultPage).Name("result")
	GET.HandleFunc("/results/{id:[0-9]+}/figure.png", h.FigurePNG)
	GET.HandleFunc("/results/{id:[0-9]+}/figure.json", h.FigureJSON)
	GET.HandleFunc("/results/{id:[0-9]+}/{file:(?:table|plotting_data)}.{ext:(?:csv|xlsx)}", h.ResultTable)
	GET.HandleFunc("/session/export", h.Export)

	//
	// POST
	//
	POST.Handle("/", http.NotFoundHandler())
	POST.HandleFunc("/import", h.ImportPost)
	POST.HandleFunc("/import/columns", h.ColumnsPost)
	POST.HandleFunc("/import/metadata", h.MetadataPost)
	POST.HandleFunc("/import/dataset", h.CreateDataSet)
	POST.HandleFunc("/import/nometadata", h.CreateWithoutMetadata)
	POST.HandleFunc("/preprocess", h.PreprocessPost)
	POST.HandleFunc("/preprocess/reset", h.PreprocessReset)
	POST.HandleFunc("/analysis/{method}", h.MethodPost)
	POST.HandleFunc("/session/new", h.NewSession)

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router), nil
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// errNotFound marks requests for session data that does not exist.
var errNotFound = errors.New("not found")

var errNoDataSet = fmt.Errorf("%w: no data set loaded, import a file first", errNotFound)

// statusCode maps an error to its HTTP status: invalid input is 400, unknown session
// data 404, anything else 500.
func statusCode(err error) int {
	var verr *core.ValidationError
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr),
		errors.Is(err, core.ErrMissingValues),
		errors.Is(err, core.ErrNoSampleOverlap),
		errors.Is(err, core.ErrDuplicateSample),
		errors.Is(err, core.ErrUnsupportedMethod),
		errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrUnknownColumn):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func JSONError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	w.Header().Set("Content-Type", "application/json")
	unifiedError(h, w, r, err, code...)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(struct {
		Success bool
		Message string
	}{
		false,
		err.Error(),
	})
}

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	output := struct {
		StatusCode     int
		StatusCodeText string
		Error          string
	}{
		StatusCode: statusCode(err),
		Error:      err.Error(),
	}

	for _, c := range code {
		output.StatusCode = c
		break // Take the first, if any is given
	}
	output.StatusCodeText = http.StatusText(output.StatusCode)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	unifiedError(h, w, r, err, output.StatusCode)

	/*
		Built from the Render() function, but not calling Render()
		to avoid possibility of infinite loop
	*/
	page := Page{
		Title: "Error",
		Site:  h.Global.Site,
		Data:  output,
	}

	if err := h.Template("error.html").Execute(w, page); err != nil {
		fmt.Fprintf(w, "Error (%d) (%v) with %+v", output.StatusCode, err, page)
	}
}

func unifiedError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	usedCode := statusCode(err)
	if len(code) > 0 {
		usedCode = code[0]
	}
	w.WriteHeader(usedCode)
	h.log.Println(r.Host, r.URL.Path, ":", usedCode, err)
}

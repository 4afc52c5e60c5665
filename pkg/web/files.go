package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// tempPath reserves a temporary file name. cleanup removes the file.
func tempPath(pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}

// attachment writes body as a download named filename.
func attachment(w http.ResponseWriter, contentType, filename string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	io.Copy(w, body)
}

func serveFile(h *handler, w http.ResponseWriter, r *http.Request, path, contentType, filename string) {
	f, err := os.Open(path)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, filename, time.Now(), f)
}

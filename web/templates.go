package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/nhihnguyen/to-do-calendar/internal/logutil"
	"github.com/nhihnguyen/to-do-calendar/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type (
	formView struct {
		Error string
	}

	homeView struct {
		User  string
		Tasks []tasks.Task
	}
)

// render buffers the template output before touching the wire, so a
// template failure can still produce a clean error status.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	err := views.ExecuteTemplate(&buf, name, data)
	if err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Str("view", name).Msg("Unable to render view")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

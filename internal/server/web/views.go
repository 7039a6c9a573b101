package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "base.layout.html"

type pageData struct {
	Title   string
	User    string
	Flashes []string
}

// views holds one parsed template set per page, each joined with the layout.
type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: map[string]*template.Template{}}
	for _, page := range []string{"login.html", "panel.html"} {
		t, err := template.New("").ParseFS(templatesFS, "templates/"+layoutFile, "templates/"+page)
		if err != nil {
			return nil, err
		}
		v.pages[page] = t
	}
	return v, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data *pageData) {
	t, ok := s.views.pages[page]
	if !ok {
		s.logger.Error(r.Context(), "unknown template", "page", page)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := t.ExecuteTemplate(buf, "base", data); err != nil {
		s.logger.Error(r.Context(), "template render failed", "request_id", middleware.GetReqID(r.Context()), "page", page, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

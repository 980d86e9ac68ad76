package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/samarth/admin-console/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer implements echo.Renderer. Every view is parsed together with the
// shared layout and executed through it.
type Renderer struct {
	views map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"isSuperAdmin": func(id *domain.Identity) bool {
		return id != nil && id.Role == domain.RoleSuperAdmin
	},
}

// NewRenderer parses the embedded views.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	views := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		views[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return &Renderer{views: views}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.views[name]
	if !ok {
		return fmt.Errorf("render: unknown view %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

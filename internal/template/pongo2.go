package template

import (
	"net/http"
	"path/filepath"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
)

// Pongo2Renderer renders server-side pages with Pongo2 templates. In debug
// mode templates are reloaded from disk on every request; otherwise compiled
// templates are cached.
type Pongo2Renderer struct {
	Debug       bool
	TemplateDir string
	mu          sync.RWMutex
	cache       map[string]*pongo2.Template
}

// NewPongo2Renderer creates a new Pongo2 renderer
func NewPongo2Renderer(templateDir string, debug bool) *Pongo2Renderer {
	return &Pongo2Renderer{
		Debug:       debug,
		TemplateDir: templateDir,
		cache:       make(map[string]*pongo2.Template),
	}
}

// Instance returns a compiled template, from cache unless in debug mode.
func (r *Pongo2Renderer) Instance(name string) (*pongo2.Template, error) {
	fullPath := filepath.Join(r.TemplateDir, name)

	if r.Debug {
		return pongo2.FromFile(fullPath)
	}

	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := pongo2.FromFile(fullPath)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[name] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

// Render renders a template into the response.
func (r *Pongo2Renderer) Render(c *gin.Context, code int, name string, data interface{}) error {
	ctx := make(pongo2.Context)
	switch v := data.(type) {
	case pongo2.Context:
		for key, value := range v {
			ctx[key] = value
		}
	case gin.H:
		for key, value := range v {
			ctx[key] = value
		}
	case map[string]interface{}:
		for key, value := range v {
			ctx[key] = value
		}
	default:
		ctx["Data"] = data
	}

	tmpl, err := r.Instance(name)
	if err != nil {
		return err
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	return tmpl.ExecuteWriter(ctx, c.Writer)
}

// HTML renders a template and turns template failures into a 500 response.
func (r *Pongo2Renderer) HTML(c *gin.Context, code int, name string, data interface{}) {
	if err := r.Render(c, code, name, data); err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
	}
}

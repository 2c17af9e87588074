package template

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestPongo2RendererRender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeTemplate(t, dir, "hello.pongo2", "Hello {{ Name }}!")

	renderer := NewPongo2Renderer(dir, false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	renderer.HTML(c, http.StatusOK, "hello.pongo2", gin.H{"Name": "World"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestPongo2RendererCachesCompiledTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeTemplate(t, dir, "page.pongo2", "v1")

	renderer := NewPongo2Renderer(dir, false)
	tmpl, err := renderer.Instance("page.pongo2")
	require.NoError(t, err)

	// A changed file is not picked up outside debug mode.
	writeTemplate(t, dir, "page.pongo2", "v2")
	again, err := renderer.Instance("page.pongo2")
	require.NoError(t, err)
	assert.Same(t, tmpl, again)
}

func TestPongo2RendererDebugReloads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeTemplate(t, dir, "page.pongo2", "v1")

	renderer := NewPongo2Renderer(dir, true)
	first, err := renderer.Instance("page.pongo2")
	require.NoError(t, err)

	writeTemplate(t, dir, "page.pongo2", "v2")
	second, err := renderer.Instance("page.pongo2")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestPongo2RendererMissingTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := NewPongo2Renderer(t.TempDir(), false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	renderer.HTML(c, http.StatusOK, "missing.pongo2", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

package httpx

import (
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rendererFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.tmpl":     {Data: []byte(`{{define "layout"}}<main>{{.Title}}</main>{{end}}`)},
		"pages/note.tmpl": {Data: []byte(`{{define "note"}}v1{{end}}`)},
		"partials/x.tmpl": {Data: []byte(`{{define "x"}}x{{end}}`)},
	}
}

func TestTemplateRenderer_RenderFull(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: rendererFS()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(rec, httptest.NewRequest("GET", "/", nil), map[string]any{"Title": "Orders"}))
	assert.Equal(t, "<main>Orders</main>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestTemplateRenderer_FailureWritesNothing(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: rendererFS()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, tr.RenderNamed(rec, "missing", nil))
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestTemplateRenderer_Reload(t *testing.T) {
	for _, reload := range []bool{false, true} {
		fsys := rendererFS()
		tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, Reload: reload})
		require.NoError(t, err)

		fsys["pages/note.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "note"}}v2{{end}}`)}

		rec := httptest.NewRecorder()
		require.NoError(t, tr.RenderNamed(rec, "note", nil))
		want := "v1"
		if reload {
			want = "v2"
		}
		assert.Equal(t, want, rec.Body.String(), "reload=%v", reload)
	}
}

func TestNewTemplateRenderer_Errors(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)

	broken := rendererFS()
	broken["pages/note.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "note"}}{{.Oops`)}
	_, err = NewTemplateRenderer(TemplateRendererConfig{TemplateFS: broken})
	require.Error(t, err)
}

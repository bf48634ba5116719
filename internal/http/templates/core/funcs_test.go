package core

import (
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, "—"},
		{"seconds", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
		{"old", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "Sep 1, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.at, now))
		})
	}
}

func TestBadgeClass(t *testing.T) {
	assert.Equal(t, "badge-success", BadgeClass("Delivered"))
	assert.Equal(t, "badge-info", BadgeClass("shipped"))
	assert.Equal(t, "badge-warning", BadgeClass("pending"))
	assert.Equal(t, "badge-danger", BadgeClass("cancelled"))
	assert.Equal(t, "badge-muted", BadgeClass("inactive"))
}

func TestPercentOf(t *testing.T) {
	assert.InDelta(t, 0, PercentOf(5, 0), 0.001)
	assert.InDelta(t, 50, PercentOf(5, 10), 0.001)
	assert.InDelta(t, 100, PercentOf(15, 10), 0.001)
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "orders-content"}}<p>{{.}}</p>{{end}}{{define "layout"}}{{renderSection "orders" .}}{{end}}`,
	))

	var sb strings.Builder
	require.NoError(t, tmpl.ExecuteTemplate(&sb, "layout", "<b>"))
	assert.Equal(t, "<p>&lt;b&gt;</p>", sb.String())
}

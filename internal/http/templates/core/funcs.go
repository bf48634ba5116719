// Package core holds the template helpers shared by every admin page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/target/storefront-admin/internal/util"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns the helpers available to every template.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl": deps.ContentTemplateFor,
		"money":       util.FormatMoney,
		"count":       util.FormatCount,
		"change":      util.FormatChange,
		"date":        formatDate,
		"datetime":    formatDateTime,
		"timeAgo":     func(t any) string { return TimeAgo(asTime(t), now()) },
		"statusLabel": func(s any) string { return util.StatusLabel(fmt.Sprint(s)) },
		"badgeClass":  func(s any) string { return BadgeClass(fmt.Sprint(s)) },
		"plainText":   util.PlainText,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"percentOf":   PercentOf,
		"contains":    strings.Contains,
		"deref":       deref,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template execution; values were escaped there.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

func formatDate(v any) string     { return util.FormatDate(asTime(v)) }
func formatDateTime(v any) string { return util.FormatDateTime(asTime(v)) }

func deref(v any) any {
	switch p := v.(type) {
	case *float64:
		if p != nil {
			return *p
		}
	case *int:
		if p != nil {
			return *p
		}
	case *string:
		if p != nil {
			return *p
		}
	case *bool:
		if p != nil {
			return *p
		}
	}
	return nil
}

// TimeAgo renders a coarse relative time such as "5m ago" or "3d ago".
// Anything older than a week falls back to the calendar date.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return util.FormatDate(t)
}

// BadgeClass maps order, payment, account and publication states to badge styles.
func BadgeClass(status string) string {
	switch strings.ToLower(status) {
	case "delivered", "paid", "completed", "active", "approved", "true":
		return "badge-success"
	case "processing", "shipped":
		return "badge-info"
	case "pending", "draft":
		return "badge-warning"
	case "cancelled", "failed", "refunded", "expired":
		return "badge-danger"
	default:
		return "badge-muted"
	}
}

// PercentOf returns v as a percentage of max, clamped to [0, 100].
func PercentOf(v, max float64) float64 {
	if max <= 0 || v <= 0 {
		return 0
	}
	if v >= max {
		return 100
	}
	return v / max * 100
}

package util //nolint:revive // package name util hosts shared formatting helpers used across HTTP templates

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer   = message.NewPrinter(language.AmericanEnglish)
	titleCase = cases.Title(language.AmericanEnglish)
)

// FormatMoney renders an amount in dollars with grouping, e.g. $1,234.50.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return printer.Sprintf("-$%.2f", -amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatChange renders a signed percentage change, e.g. +12.5%.
func FormatChange(pct float64) string {
	if pct >= 0 {
		return printer.Sprintf("+%.1f%%", pct)
	}
	return printer.Sprintf("%.1f%%", pct)
}

// StatusLabel turns backend enum values like "in_transit" into "In Transit".
func StatusLabel(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s))
	if s == "" {
		return "—"
	}
	return titleCase.String(s)
}

// FormatDate renders a timestamp as "Jan 2, 2006"; "—" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders a timestamp with minutes; "—" for the zero time.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006 15:04")
}

// PlainText strips markup from rich-text descriptions and truncates the
// result to limit runes, appending an ellipsis when shortened. limit <= 0 disables truncation.
func PlainText(s string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return truncate(strings.TrimSpace(s), limit)
			}
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
	return truncate(strings.Join(strings.Fields(b.String()), " "), limit)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:limit])) + "…"
}

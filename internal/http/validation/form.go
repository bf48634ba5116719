package validation

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of <input type="date">.
const DateLayout = "2006-01-02"

// Form reads typed values from a submitted form. Each accessor records at
// most one error per field; the first failure wins.
type Form struct {
	values url.Values
	errs   map[string]string
}

// NewForm wraps parsed form values.
func NewForm(values url.Values) *Form {
	return &Form{values: values, errs: map[string]string{}}
}

// Raw returns the trimmed submitted value.
func (f *Form) Raw(name string) string {
	return strings.TrimSpace(f.values.Get(name))
}

// Fail records an error for name unless one is already present.
func (f *Form) Fail(name, msg string) {
	if _, exists := f.errs[name]; !exists && msg != "" {
		f.errs[name] = msg
	}
}

// Errors returns the collected field errors.
func (f *Form) Errors() map[string]string { return f.errs }

// Valid reports whether no field failed.
func (f *Form) Valid() bool { return len(f.errs) == 0 }

// String returns the trimmed value after running validators.
func (f *Form) String(name string, validators ...Validator) string {
	v := f.Raw(name)
	for _, validate := range validators {
		if msg := validate(v); msg != "" {
			f.Fail(name, msg)
			break
		}
	}
	return v
}

// Float parses a required decimal number.
func (f *Form) Float(name, label string) float64 {
	p := f.OptionalFloat(name, label)
	if p == nil {
		f.Fail(name, label+" is required.")
		return 0
	}
	return *p
}

// OptionalFloat returns nil for an empty field.
func (f *Form) OptionalFloat(name, label string) *float64 {
	raw := f.Raw(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.Fail(name, label+" must be a number.")
		return nil
	}
	return &n
}

// Int parses an integer; empty yields 0.
func (f *Form) Int(name, label string) int {
	p := f.OptionalInt(name, label)
	if p == nil {
		return 0
	}
	return *p
}

// OptionalInt returns nil for an empty field.
func (f *Form) OptionalInt(name, label string) *int {
	raw := f.Raw(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.Fail(name, label+" must be a whole number.")
		return nil
	}
	return &n
}

// Bool reads a checkbox. Unchecked boxes are absent from the post.
func (f *Form) Bool(name string) bool {
	switch strings.ToLower(f.Raw(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Date parses a required yyyy-mm-dd date.
func (f *Form) Date(name, label string) time.Time {
	p := f.OptionalDate(name, label)
	if p == nil {
		f.Fail(name, label+" is required.")
		return time.Time{}
	}
	return *p
}

// OptionalDate returns nil for an empty field.
func (f *Form) OptionalDate(name, label string) *time.Time {
	raw := f.Raw(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		f.Fail(name, label+" must be a date (YYYY-MM-DD).")
		return nil
	}
	return &t
}

// List splits a textarea or comma list into trimmed, non-empty entries.
func (f *Form) List(name string) []string {
	fields := strings.FieldsFunc(f.values.Get(name), func(r rune) bool {
		return r == '\n' || r == ',' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, s := range fields {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/http/validation"
)

// FormOption is one <option> of a select field.
type FormOption struct {
	Value string
	Label string
}

// FormField describes one input of a resource form.
type FormField struct {
	Name        string
	Label       string
	Type        string // text, textarea, number, select, checkbox, date, url, email, password
	Value       string
	Checked     bool
	Options     []FormOption
	Placeholder string
	Help        string
	Required    bool
	Step        string
	Wide        bool
	Error       string
}

// FormView is the data behind the "resource-form" partial.
type FormView struct {
	Title       string
	Action      string
	Mode        FormMode
	SubmitLabel string
	CancelURL   string
	Fields      []FormField
}

// FormParser decodes a submitted form into the service input type.
// Field errors are collected on f.
type FormParser[In any] func(f *validation.Form) In

// FormSaver persists an input. id is empty in create mode.
type FormSaver[In any] func(ctx context.Context, id string, in In) error

// FormHandlerOpts contains all options needed to show or submit a form.
type FormHandlerOpts[In any] struct {
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	Mode    FormMode
	// Noun names the record in titles and toasts, e.g. "Coupon".
	Noun     string
	BasePath string
	// CurrentPage selects the content template and the active sidebar entry.
	CurrentPage string
	// Fields lists inputs pre-filled from the stored record (or defaults in create mode).
	Fields func(ctx context.Context) ([]FormField, error)
	Parser FormParser[In]
	Save   FormSaver[In]
}

func (o FormHandlerOpts[In]) id() string { return o.R.PathValue("id") }

func (o FormHandlerOpts[In]) meta() PageMeta {
	title := "New " + o.Noun
	if o.Mode == FormModeEdit {
		title = "Edit " + o.Noun
	}
	page := o.CurrentPage
	if page == "" {
		page = PageResourceForm
	}
	return PageMeta{Title: title, PageTitle: title, CurrentPage: page}
}

func (o FormHandlerOpts[In]) view(fields []FormField) FormView {
	v := FormView{
		Title:       o.meta().PageTitle,
		Action:      o.BasePath,
		Mode:        o.Mode,
		SubmitLabel: "Create " + strings.ToLower(o.Noun),
		CancelURL:   o.BasePath,
		Fields:      fields,
	}
	if o.Mode == FormModeEdit {
		v.Action = o.BasePath + "/" + o.id()
		v.SubmitLabel = "Save changes"
	}
	return v
}

func validFormOpts[In any](opts FormHandlerOpts[In]) bool {
	if opts.Handler == nil || opts.Fields == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return false
	}
	switch opts.Mode {
	case FormModeCreate:
		return true
	case FormModeEdit:
		if opts.id() == "" {
			http.NotFound(opts.W, opts.R)
			return false
		}
		return true
	}
	http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
	return false
}

// ShowForm renders an empty (create) or pre-filled (edit) form.
func ShowForm[In any](opts FormHandlerOpts[In]) {
	if !validFormOpts(opts) {
		return
	}
	opts.Handler.Page(opts.W, opts.R, PageSpec{
		Meta: opts.meta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Mode"] = opts.Mode
			fields, err := opts.Fields(ctx)
			if err != nil {
				return err
			}
			data["Form"] = opts.view(fields)
			return nil
		},
	})
}

// HandleForm processes a create or update submission. Validation failures
// re-render the form with the submitted values; success redirects to BasePath.
func HandleForm[In any](opts FormHandlerOpts[In]) {
	if !validFormOpts(opts) {
		return
	}
	if opts.Parser == nil || opts.Save == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}
	if err := opts.R.ParseForm(); err != nil {
		http.Error(opts.W, "invalid form body", http.StatusBadRequest)
		return
	}

	form := validation.NewForm(opts.R.PostForm)
	in := opts.Parser(form)
	if !form.Valid() {
		opts.renderFormError(form.Errors(), "")
		return
	}

	if err := opts.Save(opts.R.Context(), opts.id(), in); err != nil {
		if opts.Handler.handleSessionError(opts.W, opts.R, err) {
			return
		}
		opts.Handler.logger().WarnContext(opts.R.Context(), "form save failed",
			"noun", opts.Noun,
			"mode", opts.Mode,
			"error", err,
		)
		fieldErrors := map[string]string{}
		general := processError(err, fieldErrors)
		opts.renderFormError(fieldErrors, general)
		return
	}

	verb := "created"
	if opts.Mode == FormModeEdit {
		verb = "updated"
	}
	mutationDone(opts.W, opts.R, opts.Noun+" "+verb+".", opts.BasePath)
}

// renderFormError re-renders the form with the posted values and errors.
func (o FormHandlerOpts[In]) renderFormError(fieldErrors map[string]string, general string) {
	builder := NewTemplateData(o.R, o.meta()).
		With("Mode", o.Mode).
		WithFormErrors(fieldErrors, general)

	fields, err := o.Fields(o.R.Context())
	if err != nil {
		fields = nil
	}
	fields = refillFields(fields, o.R, fieldErrors)
	builder.With("Form", o.view(fields))

	if !IsHTMX(o.R) {
		o.W.Header().Set("Content-Type", "text/html; charset=utf-8")
		o.W.WriteHeader(http.StatusUnprocessableEntity)
	}
	o.Handler.renderDashboardPage(o.W, o.R, builder.Build())
}

// refillFields copies submitted values over the stored ones so a failed
// submission does not lose the operator's edits. Passwords are never echoed.
func refillFields(fields []FormField, r *http.Request, fieldErrors map[string]string) []FormField {
	out := make([]FormField, len(fields))
	for i, f := range fields {
		switch f.Type {
		case "checkbox":
			f.Checked = r.PostForm.Has(f.Name)
		case "password":
			f.Value = ""
		default:
			if r.PostForm.Has(f.Name) {
				f.Value = r.PostForm.Get(f.Name)
			}
		}
		f.Error = fieldErrors[f.Name]
		out[i] = f
	}
	return out
}

func textField(name, label, value string, required bool) FormField {
	return FormField{Name: name, Label: label, Type: "text", Value: value, Required: required}
}

func linkField(name, label, value string) FormField {
	return FormField{Name: name, Label: label, Type: "text", Value: value, Placeholder: "https://... or /path"}
}

func areaField(name, label, value string) FormField {
	return FormField{Name: name, Label: label, Type: "textarea", Value: value, Wide: true}
}

func moneyField(name, label string, value *float64, required bool) FormField {
	f := FormField{Name: name, Label: label, Type: "number", Step: "0.01", Required: required}
	if value != nil {
		f.Value = strconv.FormatFloat(*value, 'f', -1, 64)
	}
	return f
}

func intField(name, label string, value int) FormField {
	return FormField{Name: name, Label: label, Type: "number", Step: "1", Value: strconv.Itoa(value)}
}

func checkField(name, label string, checked bool) FormField {
	return FormField{Name: name, Label: label, Type: "checkbox", Checked: checked}
}

func selectField(name, label, value string, options []FormOption) FormField {
	return FormField{Name: name, Label: label, Type: "select", Value: value, Options: options, Required: true}
}

func dateField(name, label string, value *time.Time) FormField {
	f := FormField{Name: name, Label: label, Type: "date"}
	if value != nil && !value.IsZero() {
		f.Value = value.Format(validation.DateLayout)
	}
	return f
}

// findRecord picks id out of a listing for resources without a single-record endpoint.
func findRecord[T interface{ RecordID() string }](items []T, id, noun string) (T, error) {
	for _, it := range items {
		if it.RecordID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, apperrors.NotFoundf("%s not found", noun)
}

package httpx

import (
	"net/http"
)

// TemplateDataBuilder assembles the map a page template receives, starting
// from the layout data every dashboard page shares.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData seeds the builder with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithFormErrors records a failed submission. The banner shows general when
// set, otherwise a generic prompt if any field failed. Nothing is set when
// both are empty.
func (b *TemplateDataBuilder) WithFormErrors(fieldErrors map[string]string, general string) *TemplateDataBuilder {
	if len(fieldErrors) > 0 {
		b.data["Errors"] = fieldErrors
		if general == "" {
			general = errMsgFixBelow
		}
	}
	if general != "" {
		b.data["Error"] = true
		b.data["ErrorMessage"] = general
	}
	return b
}

func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

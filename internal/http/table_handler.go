package httpx

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/target/storefront-admin/internal/table"
)

// RowAction is a per-row button rendered in the trailing actions column.
type RowAction struct {
	Label string
	URL   string
	// Post submits a CSRF-protected form instead of following a link.
	Post    bool
	Confirm string
	Class   string
}

// FilterLink is a tab above the table, e.g. an order status.
type FilterLink struct {
	Label  string
	URL    string
	Active bool
}

// TableView is the data behind the "data-table" partial.
type TableView struct {
	table.Page
	BasePath    string
	PrevURL     string
	NextURL     string
	CreateURL   string
	CreateLabel string
	Filters     []FilterLink
	Actions     map[string][]RowAction
	HasActions  bool
	Notice      string
	// SearchParams are resubmitted as hidden fields by the search form.
	SearchParams []HiddenParam
}

// TableHandlerOpts contains all options needed for the generic table handler.
type TableHandlerOpts[T table.Keyed] struct {
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	// Fetch loads the full record set; search and paging happen locally.
	Fetch  func(ctx context.Context) ([]T, error)
	Config table.Config[T]
	// Actions optionally yields per-row buttons.
	Actions func(T) []RowAction
	// BasePath is the list URL used for search and pagination links.
	BasePath    string
	PageMeta    PageMeta
	CreateURL   string
	CreateLabel string
	Filters     []FilterLink
	// Notice is shown above the table instead of an error, e.g. a disabled feature.
	Notice string
	// EnrichData adds page-specific values after the table renders.
	EnrichData func(builder *TemplateDataBuilder, items []T)
}

// HandleTable renders a TabularView page. The "q" and "page" query parameters
// drive search and pagination; the page is clamped to the filtered range.
func HandleTable[T table.Keyed](opts TableHandlerOpts[T]) {
	if opts.W == nil || opts.R == nil || opts.Handler == nil || opts.Fetch == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return
	}

	h := opts.Handler
	h.Page(opts.W, opts.R, PageSpec{
		Meta: opts.PageMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			// An empty table renders even when the fetch fails.
			data["Table"] = opts.emptyView()
			items, err := opts.Fetch(ctx)
			if err != nil {
				return err
			}
			view := table.New(opts.Config, items)
			query := opts.R.URL.Query()
			view.SetQuery(strings.TrimSpace(query.Get("q")))
			view.SetPage(parsePage(query.Get("page")))
			data["Table"] = opts.buildView(view.Render(), items)

			if opts.EnrichData != nil {
				b := &TemplateDataBuilder{data: data}
				opts.EnrichData(b, items)
			}
			return nil
		},
	})
}

func (o TableHandlerOpts[T]) emptyView() TableView {
	return o.buildView(table.New(o.Config, nil).Render(), nil)
}

func (o TableHandlerOpts[T]) buildView(page table.Page, items []T) TableView {
	tv := TableView{
		Page:        page,
		BasePath:    o.BasePath,
		CreateURL:   o.CreateURL,
		CreateLabel: o.CreateLabel,
		Filters:     o.Filters,
		Notice:      o.Notice,
		HasActions:  o.Actions != nil,
	}
	query := o.R.URL.Query()
	tv.SearchParams = searchParams(query)
	if page.HasPrev {
		tv.PrevURL = buildTableURL(o.BasePath, query, page.PrevPage)
	}
	if page.HasNext {
		tv.NextURL = buildTableURL(o.BasePath, query, page.NextPage)
	}
	if o.Actions != nil {
		tv.Actions = make(map[string][]RowAction, len(items))
		for _, rec := range items {
			tv.Actions[rec.RecordID()] = o.Actions(rec)
		}
	}
	return tv
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// HiddenParam is a query parameter the search form resubmits, e.g. a status tab.
type HiddenParam struct {
	Name  string
	Value string
}

// carriedParams returns q without blanks and htmx leftovers.
func carriedParams(q url.Values) url.Values {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		kept := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			qq[k] = kept
		}
	}
	return qq
}

// searchParams lists the parameters a new search keeps. The query and page
// are dropped since a search always starts on page one.
func searchParams(q url.Values) []HiddenParam {
	qq := carriedParams(q)
	qq.Del("q")
	qq.Del("page")
	keys := make([]string, 0, len(qq))
	for k := range qq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []HiddenParam
	for _, k := range keys {
		for _, v := range qq[k] {
			out = append(out, HiddenParam{Name: k, Value: v})
		}
	}
	return out
}

// buildTableURL returns basePath with page set, preserving the search and
// filter parameters and dropping blanks and htmx leftovers.
func buildTableURL(basePath string, q url.Values, page int) string {
	qq := carriedParams(q)
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}

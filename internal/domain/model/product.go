//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ProductDimensions are shipping dimensions in centimetres.
type ProductDimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Product is a catalogue item as returned by the backend.
// Some endpoints emit "id" instead of "_id"; RecordID accepts either.
type Product struct {
	ID                string             `json:"_id,omitempty"`
	AltID             string             `json:"id,omitempty"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug"`
	Description       string             `json:"description"`
	Price             float64            `json:"price"`
	OriginalPrice     *float64           `json:"originalPrice,omitempty"`
	Category          string             `json:"category"`
	Subcategory       string             `json:"subcategory,omitempty"`
	Images            []string           `json:"images"`
	Thumbnail         string             `json:"thumbnail"`
	SKU               string             `json:"sku"`
	Stock             int                `json:"stock"`
	LowStockThreshold *int               `json:"lowStockThreshold,omitempty"`
	Rating            float64            `json:"rating"`
	ReviewCount       int                `json:"reviewCount"`
	InStock           bool               `json:"inStock"`
	Featured          bool               `json:"featured"`
	IsNewProduct      bool               `json:"isNewProduct"`
	Tags              []string           `json:"tags"`
	Specifications    map[string]string  `json:"specifications,omitempty"`
	Weight            *float64           `json:"weight,omitempty"`
	Dimensions        *ProductDimensions `json:"dimensions,omitempty"`
	IsActive          bool               `json:"isActive"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func (p Product) RecordID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.AltID
}

const defaultLowStockThreshold = 10

// LowStock reports whether stock is at or below the product's threshold.
func (p Product) LowStock() bool {
	threshold := defaultLowStockThreshold
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}
	return p.Stock <= threshold
}

// ProductInput is the body for create and update calls.
type ProductInput struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Price             float64            `json:"price"`
	OriginalPrice     *float64           `json:"originalPrice,omitempty"`
	Category          string             `json:"category"`
	Subcategory       string             `json:"subcategory,omitempty"`
	Images            []string           `json:"images"`
	Thumbnail         string             `json:"thumbnail"`
	SKU               string             `json:"sku"`
	Stock             int                `json:"stock"`
	LowStockThreshold *int               `json:"lowStockThreshold,omitempty"`
	Featured          bool               `json:"featured"`
	IsNewProduct      bool               `json:"isNewProduct"`
	Tags              []string           `json:"tags,omitempty"`
	Specifications    map[string]string  `json:"specifications,omitempty"`
	Weight            *float64           `json:"weight,omitempty"`
	Dimensions        *ProductDimensions `json:"dimensions,omitempty"`
	IsActive          *bool              `json:"isActive,omitempty"`
}

func (in *ProductInput) Validate() error {
	errs := FieldErrors{}
	errs.require("name", in.Name, "Name is required")
	errs.require("sku", in.SKU, "SKU is required")
	errs.require("category", in.Category, "Category is required")
	if in.Price <= 0 {
		errs["price"] = "Price must be greater than zero"
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < in.Price {
		errs["originalPrice"] = "Original price cannot be lower than price"
	}
	if in.Stock < 0 {
		errs["stock"] = "Stock cannot be negative"
	}
	if in.Thumbnail == "" && len(in.Images) > 0 {
		in.Thumbnail = in.Images[0]
	}
	return errs.Err()
}

// ProductFromInput mirrors an input back into a Product for re-rendering a form.
func ProductFromInput(id string, in ProductInput) Product {
	p := Product{
		ID:                id,
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		OriginalPrice:     in.OriginalPrice,
		Category:          in.Category,
		Subcategory:       in.Subcategory,
		Images:            in.Images,
		Thumbnail:         in.Thumbnail,
		SKU:               in.SKU,
		Stock:             in.Stock,
		LowStockThreshold: in.LowStockThreshold,
		Featured:          in.Featured,
		IsNewProduct:      in.IsNewProduct,
		Tags:              in.Tags,
		Specifications:    in.Specifications,
		Weight:            in.Weight,
		Dimensions:        in.Dimensions,
		IsActive:          true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

// ProductQuery filters the backend product listing.
type ProductQuery struct {
	Category    string
	Subcategory string
	Search      string
	Tags        []string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	Featured    *bool
	IsNew       *bool
	InStock     *bool
	Page        int
	Limit       int
	Sort        string
	Order       string
}

// Values encodes the non-zero filters as query parameters.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	setString := func(k, s string) {
		if s = strings.TrimSpace(s); s != "" {
			v.Set(k, s)
		}
	}
	setFloat := func(k string, f *float64) {
		if f != nil {
			v.Set(k, strconv.FormatFloat(*f, 'f', -1, 64))
		}
	}
	setBool := func(k string, b *bool) {
		if b != nil {
			v.Set(k, strconv.FormatBool(*b))
		}
	}
	setInt := func(k string, n int) {
		if n > 0 {
			v.Set(k, strconv.Itoa(n))
		}
	}

	setString("category", q.Category)
	setString("subcategory", q.Subcategory)
	setString("search", q.Search)
	setString("tags", strings.Join(q.Tags, ","))
	setFloat("minPrice", q.MinPrice)
	setFloat("maxPrice", q.MaxPrice)
	setFloat("minRating", q.MinRating)
	setBool("featured", q.Featured)
	setBool("isNew", q.IsNew)
	setBool("inStock", q.InStock)
	setInt("page", q.Page)
	setInt("limit", q.Limit)
	setString("sort", q.Sort)
	if q.Order == "asc" || q.Order == "desc" {
		v.Set("order", q.Order)
	}
	return v
}

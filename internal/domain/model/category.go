//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// Category is a product category; ParentCategory is nil for roots.
type Category struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Image          string    `json:"image,omitempty"`
	ParentCategory *string   `json:"parentCategory"`
	IsActive       bool      `json:"isActive"`
	DisplayOrder   int       `json:"displayOrder"`
	ProductsCount  int       `json:"productsCount,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c Category) RecordID() string { return c.ID }

// ParentID returns the parent category ID or "" for roots.
func (c Category) ParentID() string {
	if c.ParentCategory == nil {
		return ""
	}
	return *c.ParentCategory
}

// CategoryNode is one node of the tree returned by GET /categories.
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}

// CategoryDetails is returned by the slug lookup.
type CategoryDetails struct {
	Category
	Subcategories []Category `json:"subcategories"`
}

// CategoryRow is a category placed in a flat listing with its tree depth.
type CategoryRow struct {
	Category
	Depth      int
	ParentName string
}

// FlattenCategories walks the tree depth-first, parents before children,
// preserving sibling order.
func FlattenCategories(nodes []CategoryNode) []CategoryRow {
	var rows []CategoryRow
	var walk func(ns []CategoryNode, depth int, parent string)
	walk = func(ns []CategoryNode, depth int, parent string) {
		for _, n := range ns {
			rows = append(rows, CategoryRow{Category: n.Category, Depth: depth, ParentName: parent})
			walk(n.Children, depth+1, n.Name)
		}
	}
	walk(nodes, 0, "")
	return rows
}

// CategoryInput is the body for create and update calls.
type CategoryInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Image          string  `json:"image,omitempty"`
	ParentCategory *string `json:"parentCategory"`
	IsActive       bool    `json:"isActive"`
	DisplayOrder   int     `json:"displayOrder"`
}

func (in *CategoryInput) Validate() error {
	errs := FieldErrors{}
	errs.require("name", in.Name, "Name is required")
	if in.DisplayOrder < 0 {
		errs["displayOrder"] = "Display order cannot be negative"
	}
	if in.ParentCategory != nil && *in.ParentCategory == "" {
		in.ParentCategory = nil
	}
	return errs.Err()
}

package testutil

import (
	"fmt"

	"github.com/target/storefront-admin/internal/domain/model"
)

// ProductBuilder builds catalogue fixtures.
type ProductBuilder struct {
	p model.Product
}

// NewProduct starts a product with sensible defaults.
func NewProduct(id string) *ProductBuilder {
	return &ProductBuilder{p: model.Product{
		ID:       id,
		Name:     "Product " + id,
		Slug:     "product-" + id,
		SKU:      "SKU-" + id,
		Category: "cat-1",
		Price:    19.99,
		Stock:    25,
		InStock:  true,
		IsActive: true,
	}}
}

func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.p.Name = name
	return b
}

func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.p.Price = price
	return b
}

func (b *ProductBuilder) WithStock(stock int) *ProductBuilder {
	b.p.Stock = stock
	b.p.InStock = stock > 0
	return b
}

func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.p.Category = category
	return b
}

func (b *ProductBuilder) Featured() *ProductBuilder {
	b.p.Featured = true
	return b
}

func (b *ProductBuilder) Build() model.Product {
	return b.p
}

// Products returns n default products with ids p1..pn.
func Products(n int) []model.Product {
	out := make([]model.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewProduct(fmt.Sprintf("p%d", i)).Build())
	}
	return out
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenCategories_DepthFirst(t *testing.T) {
	tree := []CategoryNode{
		{
			Category: Category{ID: "1", Name: "Shoes"},
			Children: []CategoryNode{
				{Category: Category{ID: "2", Name: "Boots"}},
				{
					Category: Category{ID: "3", Name: "Sneakers"},
					Children: []CategoryNode{{Category: Category{ID: "4", Name: "Running"}}},
				},
			},
		},
		{Category: Category{ID: "5", Name: "Bags"}},
	}

	rows := FlattenCategories(tree)
	require.Len(t, rows, 5)

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
	assert.Equal(t, 0, rows[0].Depth)
	assert.Equal(t, 2, rows[3].Depth)
	assert.Equal(t, "Sneakers", rows[3].ParentName)
	assert.Empty(t, rows[4].ParentName)
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderShipped, st)

	_, err = ParseOrderStatus("lost")
	require.Error(t, err)
}

func TestProduct_RecordIDFallsBackToID(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","name":"Mug"}`), &p))
	assert.Equal(t, "abc", p.RecordID())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"xyz","id":"abc"}`), &p))
	assert.Equal(t, "xyz", p.RecordID())
}

func TestProductInput_Validate(t *testing.T) {
	in := ProductInput{Name: "Mug", SKU: "MUG-1", Category: "kitchen", Price: 9.5, Images: []string{"a.jpg"}}
	require.NoError(t, in.Validate())
	assert.Equal(t, "a.jpg", in.Thumbnail)

	bad := ProductInput{Stock: -1}
	err := bad.Validate()
	require.Error(t, err)

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "price")
	assert.Contains(t, fe, "stock")
}

func TestProductQuery_Values(t *testing.T) {
	inStock := true
	q := ProductQuery{Search: " boot ", InStock: &inStock, Page: 2, Order: "sideways"}
	v := q.Values()

	assert.Equal(t, "boot", v.Get("search"))
	assert.Equal(t, "true", v.Get("inStock"))
	assert.Equal(t, "2", v.Get("page"))
	assert.False(t, v.Has("order"))
	assert.False(t, v.Has("limit"))
}

func TestCouponInput_Validate(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := CouponInput{
		Code:          " save10 ",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     from,
		ValidUntil:    from.AddDate(0, 1, 0),
	}
	require.NoError(t, in.Validate())
	assert.Equal(t, "SAVE10", in.Code)

	in.DiscountValue = 150
	in.ValidUntil = from
	err := in.Validate()
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "discountValue")
	assert.Contains(t, fe, "validUntil")
}

func TestAccountStatus_Toggled(t *testing.T) {
	assert.Equal(t, AccountInactive, AccountActive.Toggled())
	assert.Equal(t, AccountActive, AccountInactive.Toggled())
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	fe := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "a: first; b: second", fe.Error())
	assert.NoError(t, FieldErrors{}.Err())
}

func TestTestimonialInput_RatingBounds(t *testing.T) {
	in := TestimonialInput{Name: "Sam", Content: "Great", Rating: 6}
	require.Error(t, in.Validate())
	in.Rating = 5
	require.NoError(t, in.Validate())
}

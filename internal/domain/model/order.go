//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"fmt"
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// ParseOrderStatus validates a status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", s)
}

// PaymentStatus is the payment state reported by the backend.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCompleted PaymentStatus = "completed"
)

// Address is a shipping address.
type Address struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID       string  `json:"_id,omitempty"`
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

func (i OrderItem) RecordID() string { return i.ID }

// OrderCustomer is the customer summary embedded in admin order listings.
type OrderCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is a storefront order.
type Order struct {
	ID              string         `json:"_id,omitempty"`
	AltID           string         `json:"id,omitempty"`
	OrderNumber     string         `json:"orderNumber"`
	User            string         `json:"user"`
	Customer        *OrderCustomer `json:"customer,omitempty"`
	Items           []OrderItem    `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	Discount        float64        `json:"discount"`
	ShippingFee     float64        `json:"shippingFee"`
	Tax             float64        `json:"tax"`
	Total           float64        `json:"total"`
	Status          OrderStatus    `json:"status"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   PaymentStatus  `json:"paymentStatus"`
	ShippingAddress Address        `json:"shippingAddress"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (o Order) RecordID() string {
	if o.ID != "" {
		return o.ID
	}
	return o.AltID
}

// CustomerName returns the best available customer label.
func (o Order) CustomerName() string {
	if o.Customer != nil && o.Customer.Name != "" {
		return o.Customer.Name
	}
	if o.ShippingAddress.FullName != "" {
		return o.ShippingAddress.FullName
	}
	return o.User
}

// CustomerEmail returns the customer's email when the backend embeds it.
func (o Order) CustomerEmail() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Email
}

// OrderStatusUpdate is the body for PUT /orders/{id}/status.
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}

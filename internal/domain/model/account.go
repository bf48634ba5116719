//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// AccountStatus is whether a storefront account may sign in.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Toggled returns the opposite status.
func (s AccountStatus) Toggled() AccountStatus {
	if s == AccountActive {
		return AccountInactive
	}
	return AccountActive
}

// Account is a storefront user as listed in the admin users screen.
type Account struct {
	ID          string        `json:"_id,omitempty"`
	AltID       string        `json:"id,omitempty"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Avatar      string        `json:"avatar,omitempty"`
	Role        string        `json:"role"`
	Status      AccountStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	LastLogin   *time.Time    `json:"lastLogin,omitempty"`
	OrdersCount int           `json:"ordersCount"`
	TotalSpent  float64       `json:"totalSpent"`
}

func (a Account) RecordID() string {
	if a.ID != "" {
		return a.ID
	}
	return a.AltID
}

// AccountStatusUpdate is the body for PUT /users/{id}/status.
type AccountStatusUpdate struct {
	Status AccountStatus `json:"status"`
}

//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ActivityAction names what an administrator did.
type ActivityAction string

const (
	ActivityCreate ActivityAction = "create"
	ActivityUpdate ActivityAction = "update"
	ActivityDelete ActivityAction = "delete"
	ActivityStatus ActivityAction = "status"
	ActivityLogin  ActivityAction = "login"
	ActivityLogout ActivityAction = "logout"
)

// ActivityEntry is one row of the local admin audit trail.
type ActivityEntry struct {
	ID         string         `json:"id"          db:"id"`
	Actor      string         `json:"actor"       db:"actor"`
	Action     ActivityAction `json:"action"      db:"action"`
	Resource   string         `json:"resource"    db:"resource"`
	ResourceID string         `json:"resource_id" db:"resource_id"`
	Summary    string         `json:"summary"     db:"summary"`
	CreatedAt  time.Time      `json:"created_at"  db:"created_at"`
}

func (e ActivityEntry) RecordID() string { return e.ID }

// RecordActivityRequest describes an entry to append.
type RecordActivityRequest struct {
	Actor      string
	Action     ActivityAction
	Resource   string
	ResourceID string
	Summary    string
}

func (r *RecordActivityRequest) Validate() error {
	if strings.TrimSpace(r.Actor) == "" {
		return errors.New("actor is required")
	}
	if r.Action == "" {
		return errors.New("action is required")
	}
	if strings.TrimSpace(r.Resource) == "" {
		return errors.New("resource is required")
	}
	if len(r.Summary) > 500 {
		r.Summary = r.Summary[:500]
	}
	return nil
}

// ActivityListOptions filters the audit trail listing.
type ActivityListOptions struct {
	Resource string
	Actor    string
	Limit    int
	Offset   int
}

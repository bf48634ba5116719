package data

import "errors"

// ErrActivityDisabled is returned by callers that need the activity log when
// Postgres is not configured.
var ErrActivityDisabled = errors.New("activity log is disabled")

// Package testutil holds shared test helpers: optional live Postgres and
// Redis, a fixed clock, and fixture builders. Live backends are skipped when
// unreachable unless TEST_REQUIRE_INFRA (or the per-backend variable) is set.
package testutil

import (
	"os"
	"strings"
	"time"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestTime is the instant fixtures are stamped with.
func TestTime() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envTrue(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// unavailable skips the test, or fails it when the backend is mandatory.
func unavailable(t TB, requireVar, what string, err error) {
	t.Helper()
	if envTrue(requireVar) || envTrue("TEST_REQUIRE_INFRA") {
		t.Fatalf("%s not available: %v", what, err)
	}
	t.Skip(what+" not available:", err)
}

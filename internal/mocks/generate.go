// Package mocks provides gomock implementations of the storefront-admin ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockActivityRepository(ctrl)
//	repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(entry, nil)
package mocks

// ActivityRepository: Record, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=activity_repository_mock.go github.com/target/storefront-admin/internal/core ActivityRepository

// CacheRepository: Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/storefront-admin/internal/core CacheRepository

// SessionStore: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/storefront-admin/internal/ports SessionStore

// AuthBackend: Login, Refresh, Logout
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_backend_mock.go github.com/target/storefront-admin/internal/ports AuthBackend

package backend

import (
	"context"

	"juros/internal/rates"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// PingFunc reports whether a backend can still serve requests.
type PingFunc func(ctx context.Context) error

// BackendResult contains the catalog and its lifecycle hooks.
type BackendResult struct {
	Catalog rates.Catalog
	Ping    PingFunc
	Cleanup CleanupFunc
}

// Factory creates reference rate backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

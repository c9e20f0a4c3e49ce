package backend

import (
	"ledgerd/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the opened store and optional cleanup function
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Type represents the kind of storage backend
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

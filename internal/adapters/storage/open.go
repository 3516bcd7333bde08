package storage

import (
	"fmt"

	"github.com/xvierd/focus-smile/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open returns the store for backend. location is the database file for
// sqlite and the directory for file; memory ignores it.
func Open(backend, location string) (ports.KeyValueStore, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLite(location)
	case BackendFile:
		return NewFile(location)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

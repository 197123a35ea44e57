// Package backend opens the persistence slot and the optional change
// publisher selected by DATA_BACKEND and AMQP_URL.
package backend

import (
	"context"

	"trust/internal/amqp"
	"trust/internal/storage"
)

// BackendType names a persistence medium for the trust data slot.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// backendTypes is ordered the way options are listed in error messages.
var backendTypes = []BackendType{MemoryBackend, FileBackend, SQLiteBackend}

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	for _, known := range backendTypes {
		if bt == known {
			return true
		}
	}
	return false
}

// BackendResult is what a running binary needs from the backend layer.
// Publisher stays nil when change events are off or the broker could not
// be reached at startup.
type BackendResult struct {
	Slot      storage.Slot
	Publisher *amqp.Client
	Cleanup   func() error
}

// Factory opens backends. Tests substitute it to avoid touching disk.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

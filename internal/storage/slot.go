// Package storage provides the key-value persistence medium behind the
// trust store. A Slot holds opaque bytes under a fixed name; the store is
// the only caller and always writes whole values.
package storage

import "context"

// Slot is a named key-value persistence medium.
type Slot interface {
	// Get returns the value under key. ok is false when nothing was stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put overwrites the value under key.
	Put(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by slots holding external resources.
type Closer interface {
	Close() error
}

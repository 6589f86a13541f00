// Package kv defines the key-value store the ledger is persisted to.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Ports for outbound adapters.
type (
	// Store keeps string values under string keys.
	Store interface {
		// Get returns the value stored under key. found is false when the
		// key has never been written.
		Get(ctx context.Context, key string) (value string, found bool, err error)

		// Set creates or overwrites the value stored under key.
		Set(ctx context.Context, key, value string) error
	}
)

package domain

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// HabitsKey is the fixed key under which the whole habit collection is stored.
const HabitsKey = "habitTrackerData"

type KVStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

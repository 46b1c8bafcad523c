// Package store persists named document snapshots between runs so a live
// document can be compared against an earlier baseline.
package store

import (
	"context"
	"errors"
)

// ErrNotFound reports that no snapshot with the requested name exists.
var ErrNotFound = errors.New("not found")

// SnapshotStore persists snapshots by name.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, name string) (*Snapshot, error)

	// List returns every stored snapshot ordered by name.
	List(ctx context.Context) ([]*Snapshot, error)
	// Delete removes the named snapshot, reporting ErrNotFound when it does
	// not exist.
	Delete(ctx context.Context, name string) error

	Close() error
}

// Package bbolt backs the snapshot store with a single-file BoltDB database.
package bbolt

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/structdiff/structdiff/internal/store"
)

var bucketSnapshots = []byte("snapshots") // name -> Snapshot

// Store keeps snapshots in a BoltDB database file.
type Store struct {
	db    *bbolt.DB
	codec store.Codec
}

var _ store.SnapshotStore = (*Store)(nil)

// New opens (or creates) a BoltDB database file.
// Pass nil for codec to use the default MessagePack implementation.
func New(path string, codec store.Codec) (*Store, error) {
	if codec == nil {
		codec = store.DefaultCodec
	}
	db, err := bbolt.Open(path, 0o666, &bbolt.Options{
		Timeout:      0,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create default buckets: %w", err)
	}
	return &Store{db: db, codec: codec}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

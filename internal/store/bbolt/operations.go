package bbolt

import (
	"context"

	"go.etcd.io/bbolt"

	"github.com/structdiff/structdiff/internal/store"
)

// Save stores a snapshot, replacing any previous snapshot with the same name.
func (s *Store) Save(_ context.Context, snap *store.Snapshot) error {
	payload, err := s.codec.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(snap.Name), payload)
	})
}

// Get returns the named snapshot or store.ErrNotFound.
func (s *Store) Get(_ context.Context, name string) (*store.Snapshot, error) {
	var snap store.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get([]byte(name))
		if v == nil {
			return store.ErrNotFound
		}
		return s.codec.Unmarshal(v, &snap)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// List returns every snapshot in the database. Buckets iterate in key order,
// so the result is sorted by name.
func (s *Store) List(_ context.Context) ([]*store.Snapshot, error) {
	var snaps []*store.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(_, v []byte) error {
			var snap store.Snapshot
			if err := s.codec.Unmarshal(v, &snap); err != nil {
				return err
			}
			snaps = append(snaps, &snap)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// Delete removes the named snapshot, reporting store.ErrNotFound when no
// such snapshot exists.
func (s *Store) Delete(_ context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket.Get([]byte(name)) == nil {
			return store.ErrNotFound
		}
		return bucket.Delete([]byte(name))
	})
}

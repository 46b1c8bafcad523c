package store

import "time"

// Snapshot is a named document captured at a point in time.
type Snapshot struct {
	// Name identifies the snapshot within the store.
	Name string `msgpack:"n" json:"name"`
	// TakenAt records when the snapshot was saved.
	TakenAt time.Time `msgpack:"t" json:"takenAt"`
	// Document is the captured document in its canonical JSON-shaped form,
	// so a round trip through the store compares cleanly against live loads.
	Document any `msgpack:"d" json:"document"`
}

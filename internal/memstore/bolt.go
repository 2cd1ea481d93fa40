// Package memstore — bolt.go
//
// BoltDB-backed persistence for the Pentagram core.
//
// Schema (BoltDB bucket layout):
//
//	/memories
//	    key:   fixed-width RFC3339 nanosecond timestamp + "_" + user_id  [sortable]
//	    value: JSON-encoded storedExperience
//
//	/identity
//	    key:   "state"
//	    value: JSON-encoded pentagram.IdentityState
//
//	/development
//	    key:   "snapshots" | "milestones" | "cycle_count"
//	    value: JSON-encoded slice or counter
//
//	/meta
//	    key:   "schema_version"
//	    value: "1"
//
// Consistency model: single-process, single-writer (bbolt does not support
// concurrent writers); all writes use ACID transactions.
package memstore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

const (
	// SchemaVersion is the current database schema version.
	SchemaVersion = "1"

	bucketMemories    = "memories"
	bucketIdentity    = "identity"
	bucketDevelopment = "development"
	bucketMeta        = "meta"
)

// DB wraps a BoltDB instance with typed accessors for Pentagram data.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the BoltDB database at path and initializes all
// required buckets.
func Open(path string) (*DB, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt.Open(%q): %w", path, err)
	}

	d := &DB{db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketMemories, bucketIdentity, bucketDevelopment, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("CreateBucketIfNotExists(%q): %w", name, err)
			}
		}
		meta := tx.Bucket([]byte(bucketMeta))
		if meta.Get([]byte("schema_version")) == nil {
			return meta.Put([]byte("schema_version"), []byte(SchemaVersion))
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	return d, nil
}

// Close closes the underlying BoltDB file.
func (d *DB) Close() error {
	return d.db.Close()
}

type storedExperience struct {
	Experience pentagram.Experience `json:"experience"`
	StoredAt   time.Time            `json:"stored_at"`
}

func memoryKey(t time.Time, userID string) []byte {
	return []byte(fmt.Sprintf("%s_%s", t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"), userID))
}

// PutExperience persists one experience under the memories bucket.
func (d *DB) PutExperience(experience pentagram.Experience) error {
	rec := storedExperience{Experience: experience, StoredAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("PutExperience marshal: %w", err)
	}
	key := memoryKey(rec.StoredAt, experience.UserID)
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMemories)).Put(key, data)
	})
}

// ListExperiences returns every persisted experience for a user, newest
// last (keys are chronologically sortable).
func (d *DB) ListExperiences(userID string) ([]pentagram.Experience, error) {
	var out []pentagram.Experience
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMemories)).ForEach(func(_, v []byte) error {
			var rec storedExperience
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if userID == "" || rec.Experience.UserID == userID {
				out = append(out, rec.Experience)
			}
			return nil
		})
	})
	return out, err
}

// PutIdentityState persists the full identity state snapshot.
func (d *DB) PutIdentityState(state pentagram.IdentityState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("PutIdentityState marshal: %w", err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketIdentity)).Put([]byte("state"), data)
	})
}

// GetIdentityState loads the persisted identity state. Returns (nil, nil)
// if none has been stored yet.
func (d *DB) GetIdentityState() (*pentagram.IdentityState, error) {
	var state pentagram.IdentityState
	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketIdentity)).Get([]byte("state"))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

// PutDevelopmentSnapshot persists one arbitrary development key (used by
// the Monitor for its window, milestone list, and cycle counter).
func (d *DB) PutDevelopmentSnapshot(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("PutDevelopmentSnapshot marshal: %w", err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDevelopment)).Put([]byte(key), data)
	})
}

// GetDevelopmentSnapshot loads a persisted development key into out.
// Returns false if no value is stored for key.
func (d *DB) GetDevelopmentSnapshot(key string, out any) (bool, error) {
	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketDevelopment)).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}

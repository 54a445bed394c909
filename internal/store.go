package internal

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Storage slot keys. Each slot holds one opaque JSON blob.
const (
	KeyWorkspaces      = "workspaces"
	KeyActiveWorkspace = "activeWorkspace"
	KeyChatHistories   = "chatHistories"
)

// BlobStore is the durable persistence boundary. Load resolves absent or
// unreadable blobs to false instead of failing; Save is best-effort. The
// in-memory state of the managers stays authoritative either way.
type BlobStore interface {
	// Load reads the named blob into v. Returns false when the key is absent
	// or the stored value cannot be decoded; it never fails outward.
	Load(key string, v interface{}) bool
	// Save writes v under the named key. Failures are logged and recorded,
	// not returned.
	Save(key string, v interface{})
	// LastWriteErr reports the most recent Save failure, or nil if the last
	// write succeeded. Health signal for UI/telemetry polling.
	LastWriteErr() error
}

// Store is the SQLite-backed BlobStore. Blobs live in a single key/value
// table, one row per slot.
type Store struct {
	db *sql.DB

	mu           sync.Mutex
	lastWriteErr error
}

// OpenStore opens (creating if necessary) the store database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("failed to create kv table: %w", err)}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements BlobStore.
func (s *Store) Load(key string, v interface{}) bool {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		logError("Failed to read blob %q: %v", key, err)
		return false
	}

	if err := DecodeBlob([]byte(value), v); err != nil {
		logError("Failed to decode blob %q: %v", key, err)
		return false
	}
	return true
}

// Save implements BlobStore.
func (s *Store) Save(key string, v interface{}) {
	data, err := EncodeBlob(v)
	if err == nil {
		_, err = s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastWriteErr = &StoreError{Op: "save", Key: key, Err: err}
		logWarn("Failed to persist blob %q: %v", key, err)
		return
	}
	s.lastWriteErr = nil
}

// LastWriteErr implements BlobStore.
func (s *Store) LastWriteErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWriteErr
}

// DeleteBlob removes the named blob. Best-effort like Save.
func (s *Store) DeleteBlob(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		logWarn("Failed to delete blob %q: %v", key, err)
	}
}

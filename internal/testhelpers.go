package internal

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errWriteFailed = errors.New("simulated write failure")

// MemStore is an in-memory BlobStore used by tests. Blobs round-trip through
// the same envelope encoding as the SQLite store. FailWrites simulates a full
// or broken backing store.
type MemStore struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	FailWrites   bool
	lastWriteErr error
	saveCount    int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

// Load implements BlobStore.
func (s *MemStore) Load(key string, v interface{}) bool {
	s.mu.Lock()
	raw, ok := s.blobs[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := DecodeBlob(raw, v); err != nil {
		logError("Failed to decode blob %q: %v", key, err)
		return false
	}
	return true
}

// Save implements BlobStore.
func (s *MemStore) Save(key string, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCount++

	if s.FailWrites {
		s.lastWriteErr = &StoreError{Op: "save", Key: key, Err: errWriteFailed}
		return
	}

	data, err := EncodeBlob(v)
	if err != nil {
		s.lastWriteErr = &StoreError{Op: "save", Key: key, Err: err}
		return
	}
	s.blobs[key] = data
	s.lastWriteErr = nil
}

// LastWriteErr implements BlobStore.
func (s *MemStore) LastWriteErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWriteErr
}

// SetRaw stores a raw blob verbatim, bypassing the envelope. Lets tests stage
// legacy or corrupt data.
func (s *MemStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = raw
}

// SaveCount reports how many Save calls the store has seen.
func (s *MemStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}

// StubGateway is a scripted ModelGateway. Responder decides each call's
// result; a nil Responder echoes "ok". Gate, when set, blocks the call until
// the channel is closed or receives, letting tests control interleaving.
type StubGateway struct {
	mu        sync.Mutex
	Responder func(message string) (Reply, error)
	Gate      chan struct{}
	calls     []string
}

// SendChatMessage implements ModelGateway.
func (g *StubGateway) SendChatMessage(ctx context.Context, message string) (Reply, error) {
	g.mu.Lock()
	g.calls = append(g.calls, message)
	gate := g.Gate
	responder := g.Responder
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}
	}

	if responder == nil {
		return Reply{Text: "ok"}, nil
	}
	return responder(message)
}

// Calls returns the messages the gateway has seen, in order.
func (g *StubGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

// CreateTestMessage creates a transcript message with the given text
func CreateTestMessage(text string, fromUser bool) Message {
	return Message{
		ID:        GenerateID(),
		Payload:   TextPayload(text),
		FromUser:  fromUser,
		Timestamp: time.Now(),
	}
}

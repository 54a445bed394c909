package internal

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Transcript messages substituted when the backend answers with nothing
// usable or fails outright.
const (
	EmptyReplyText = "No response from AI."
	ErrorReplyText = "Error processing your request. Please try again."
)

// ChatHistoryManager owns the per-workspace transcripts and busy flags. It
// serializes the send/await/append cycle per workspace: a second send to the
// same workspace waits for the in-flight one, while sends to different
// workspaces run concurrently. Transcripts are append-only; both maps are
// replaced copy-on-write so readers never observe partial state.
type ChatHistoryManager struct {
	mu      sync.RWMutex
	store   BlobStore
	gateway ModelGateway

	histories map[string][]Message
	loading   map[string]bool

	slotMu sync.Mutex
	slots  map[string]chan struct{}
}

// NewChatHistoryManager constructs a manager and loads persisted transcripts.
// An absent or unreadable blob yields an empty store.
func NewChatHistoryManager(store BlobStore, gateway ModelGateway) *ChatHistoryManager {
	m := &ChatHistoryManager{
		store:     store,
		gateway:   gateway,
		histories: make(map[string][]Message),
		loading:   make(map[string]bool),
		slots:     make(map[string]chan struct{}),
	}

	var persisted map[string][]Message
	if store.Load(KeyChatHistories, &persisted) && persisted != nil {
		m.histories = persisted
	}
	return m
}

// History returns the workspace's transcript in chronological order, or an
// empty sequence for an unknown workspace. Pure read.
func (m *ChatHistoryManager) History(workspaceID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.histories[workspaceID]
}

// IsBusy reports whether a send/await cycle is in flight for the workspace.
func (m *ChatHistoryManager) IsBusy(workspaceID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading[workspaceID]
}

// SendMessage appends the user's message, awaits the model's reply, and
// appends the reply (or a fixed error message when the gateway fails). The
// transcript is persisted after each append. Gateway failures never escape;
// the caller always observes a settled transcript. Empty text after trimming
// is a silent no-op.
func (m *ChatHistoryManager) SendMessage(ctx context.Context, workspaceID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	release := m.acquire(workspaceID)
	defer release()

	m.append(workspaceID, Message{
		ID:        GenerateID(),
		Payload:   TextPayload(text),
		FromUser:  true,
		Timestamp: time.Now(),
	})

	m.setLoading(workspaceID, true)
	defer m.setLoading(workspaceID, false)

	logDebug("Sending message for workspace %s", workspaceID)
	reply, err := m.gateway.SendChatMessage(ctx, text)
	payload := normalizeReply(reply)
	if err != nil {
		logWarn("Send failed for workspace %s: %v", workspaceID, err)
		payload = TextPayload(ErrorReplyText)
	}

	m.append(workspaceID, Message{
		ID:        GenerateID(),
		Payload:   payload,
		FromUser:  false,
		Timestamp: time.Now(),
	})
}

// ClearHistory removes the workspace's transcript entirely and persists.
func (m *ChatHistoryManager) ClearHistory(workspaceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string][]Message, len(m.histories))
	for id, msgs := range m.histories {
		if id != workspaceID {
			next[id] = msgs
		}
	}
	m.histories = next
	m.persist()
}

// ClearAll resets the whole transcript store and persists.
func (m *ChatHistoryManager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories = make(map[string][]Message)
	m.persist()
}

// acquire takes the workspace's single send slot, blocking while another
// send for the same workspace is in flight. The returned func releases it.
func (m *ChatHistoryManager) acquire(workspaceID string) func() {
	m.slotMu.Lock()
	slot, ok := m.slots[workspaceID]
	if !ok {
		slot = make(chan struct{}, 1)
		m.slots[workspaceID] = slot
	}
	m.slotMu.Unlock()

	slot <- struct{}{}
	return func() { <-slot }
}

// append adds a message and persists. The map and the workspace's slice are
// both replaced, never mutated, so concurrent readers keep a stable view.
func (m *ChatHistoryManager) append(workspaceID string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.histories[workspaceID]
	seq := make([]Message, len(prev), len(prev)+1)
	copy(seq, prev)
	seq = append(seq, msg)

	next := make(map[string][]Message, len(m.histories)+1)
	for id, msgs := range m.histories {
		next[id] = msgs
	}
	next[workspaceID] = seq
	m.histories = next
	m.persist()
}

func (m *ChatHistoryManager) setLoading(workspaceID string, busy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]bool, len(m.loading)+1)
	for id, v := range m.loading {
		next[id] = v
	}
	next[workspaceID] = busy
	m.loading = next
}

// persist writes the transcript map. Caller holds mu.
func (m *ChatHistoryManager) persist() {
	m.store.Save(KeyChatHistories, m.histories)
}

// normalizeReply converts a raw gateway reply into a transcript payload.
// Plain text passes through; object replies keep their known fields with the
// response text defaulted; anything else becomes the empty-reply placeholder.
func normalizeReply(reply Reply) Payload {
	if reply.Object != nil {
		normalized := *reply.Object
		if normalized.Response == "" {
			normalized.Response = EmptyReplyText
		}
		return ReplyPayload(&normalized)
	}
	if reply.Text != "" {
		return TextPayload(reply.Text)
	}
	return TextPayload(EmptyReplyText)
}

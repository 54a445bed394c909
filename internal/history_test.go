package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestChatHistoryManager_SuccessPath(t *testing.T) {
	store := NewMemStore()
	gateway := &StubGateway{
		Responder: func(message string) (Reply, error) {
			return Reply{Text: "pong"}, nil
		},
	}
	m := NewChatHistoryManager(store, gateway)

	if m.IsBusy("w") {
		t.Error("IsBusy() = true before any send")
	}

	m.SendMessage(context.Background(), "w", "ping")

	history := m.History("w")
	if len(history) != 2 {
		t.Fatalf("History() has %d messages, want 2", len(history))
	}
	if !history[0].FromUser || history[0].Payload.String() != "ping" {
		t.Errorf("first message = %+v, want user 'ping'", history[0])
	}
	if history[1].FromUser || history[1].Payload.String() != "pong" {
		t.Errorf("second message = %+v, want assistant 'pong'", history[1])
	}
	if m.IsBusy("w") {
		t.Error("IsBusy() = true after send settled")
	}
	if history[0].ID == history[1].ID {
		t.Error("messages must get distinct IDs")
	}
}

func TestChatHistoryManager_ObjectReplyNormalization(t *testing.T) {
	store := NewMemStore()
	gateway := &StubGateway{
		Responder: func(message string) (Reply, error) {
			return Reply{Object: &ModelReply{
				Response:    "structured answer",
				AgentUsed:   "triage",
				ImageBase64: "aW1n",
			}}, nil
		},
	}
	m := NewChatHistoryManager(store, gateway)

	m.SendMessage(context.Background(), "w", "question")

	history := m.History("w")
	reply := history[1].Payload.Reply
	if reply == nil {
		t.Fatalf("second message payload = %+v, want structured reply", history[1].Payload)
	}
	if reply.Response != "structured answer" || reply.AgentUsed != "triage" || reply.ImageBase64 != "aW1n" {
		t.Errorf("normalized reply = %+v, known fields must pass through", reply)
	}
}

func TestChatHistoryManager_EmptyReplyPlaceholder(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
	}{
		{name: "empty reply", reply: Reply{}},
		{name: "object without response", reply: Reply{Object: &ModelReply{Status: "ok"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &StubGateway{
				Responder: func(message string) (Reply, error) { return tt.reply, nil },
			}
			m := NewChatHistoryManager(NewMemStore(), gateway)

			m.SendMessage(context.Background(), "w", "hi")

			history := m.History("w")
			if got := history[1].Payload.String(); got != EmptyReplyText {
				t.Errorf("placeholder = %q, want %q", got, EmptyReplyText)
			}
		})
	}
}

func TestChatHistoryManager_FailurePath(t *testing.T) {
	store := NewMemStore()
	gateway := &StubGateway{
		Responder: func(message string) (Reply, error) {
			return Reply{}, errors.New("connection refused")
		},
	}
	m := NewChatHistoryManager(store, gateway)

	m.SendMessage(context.Background(), "w", "hi")

	history := m.History("w")
	if len(history) != 2 {
		t.Fatalf("History() has %d messages, want 2", len(history))
	}
	if history[1].FromUser || history[1].Payload.String() != ErrorReplyText {
		t.Errorf("second message = %+v, want fixed error text", history[1])
	}
	if m.IsBusy("w") {
		t.Error("IsBusy() = true after failed send settled")
	}
}

func TestChatHistoryManager_EmptySendIsNoop(t *testing.T) {
	gateway := &StubGateway{}
	m := NewChatHistoryManager(NewMemStore(), gateway)

	m.SendMessage(context.Background(), "w", "")
	m.SendMessage(context.Background(), "w", "   ")

	if got := m.History("w"); len(got) != 0 {
		t.Errorf("History() = %+v, want empty after blank sends", got)
	}
	if m.IsBusy("w") {
		t.Error("IsBusy() = true after blank sends")
	}
	if calls := gateway.Calls(); len(calls) != 0 {
		t.Errorf("gateway saw %v, want no calls", calls)
	}
}

func TestChatHistoryManager_TrimsBeforeSending(t *testing.T) {
	gateway := &StubGateway{}
	m := NewChatHistoryManager(NewMemStore(), gateway)

	m.SendMessage(context.Background(), "w", "  padded  ")

	if history := m.History("w"); history[0].Payload.String() != "padded" {
		t.Errorf("stored text = %q, want trimmed", history[0].Payload.String())
	}
	if calls := gateway.Calls(); len(calls) != 1 || calls[0] != "padded" {
		t.Errorf("gateway saw %v, want [padded]", calls)
	}
}

func TestChatHistoryManager_UnknownWorkspaceReads(t *testing.T) {
	m := NewChatHistoryManager(NewMemStore(), &StubGateway{})

	if got := m.History("never-seen"); len(got) != 0 {
		t.Errorf("History() = %+v, want empty for unknown workspace", got)
	}
	if m.IsBusy("never-seen") {
		t.Error("IsBusy() = true for unknown workspace, want false")
	}
}

func TestChatHistoryManager_WorkspaceIsolation(t *testing.T) {
	gate := make(chan struct{})
	gateway := &StubGateway{
		Gate: gate,
		Responder: func(message string) (Reply, error) {
			return Reply{Text: "re: " + message}, nil
		},
	}
	m := NewChatHistoryManager(NewMemStore(), gateway)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.SendMessage(context.Background(), "w1", "a")
	}()
	go func() {
		defer wg.Done()
		m.SendMessage(context.Background(), "w2", "b")
	}()

	// Both sends run concurrently: user messages appended, both busy
	waitFor(t, "both workspaces busy", func() bool {
		return m.IsBusy("w1") && m.IsBusy("w2")
	})
	if len(m.History("w1")) != 1 || len(m.History("w2")) != 1 {
		t.Errorf("mid-flight transcripts = %d/%d messages, want 1/1",
			len(m.History("w1")), len(m.History("w2")))
	}

	gate <- struct{}{}
	gate <- struct{}{}
	wg.Wait()

	h1, h2 := m.History("w1"), m.History("w2")
	if len(h1) != 2 || len(h2) != 2 {
		t.Fatalf("transcripts = %d/%d messages, want 2/2", len(h1), len(h2))
	}
	if h1[1].Payload.String() != "re: a" {
		t.Errorf("w1 reply = %q, leaked or lost", h1[1].Payload.String())
	}
	if h2[1].Payload.String() != "re: b" {
		t.Errorf("w2 reply = %q, leaked or lost", h2[1].Payload.String())
	}
	if m.IsBusy("w1") || m.IsBusy("w2") {
		t.Error("busy flags must clear after both sends settle")
	}
}

func TestChatHistoryManager_SameWorkspaceSendsSerialize(t *testing.T) {
	gate := make(chan struct{})
	gateway := &StubGateway{
		Gate: gate,
		Responder: func(message string) (Reply, error) {
			return Reply{Text: "re: " + message}, nil
		},
	}
	m := NewChatHistoryManager(NewMemStore(), gateway)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.SendMessage(context.Background(), "w", "first")
	}()
	waitFor(t, "first send in flight", func() bool { return m.IsBusy("w") })

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.SendMessage(context.Background(), "w", "second")
	}()

	// The second send waits for the slot; only the first user message exists
	waitFor(t, "second send queued", func() bool { return len(gateway.Calls()) == 1 })
	if got := len(m.History("w")); got != 1 {
		t.Errorf("mid-flight transcript has %d messages, want 1 (second send must wait)", got)
	}

	gate <- struct{}{}
	waitFor(t, "second send in flight", func() bool { return len(gateway.Calls()) == 2 })
	gate <- struct{}{}
	wg.Wait()

	history := m.History("w")
	if len(history) != 4 {
		t.Fatalf("transcript has %d messages, want 4", len(history))
	}
	want := []string{"first", "re: first", "second", "re: second"}
	for i, text := range want {
		if history[i].Payload.String() != text {
			t.Errorf("message %d = %q, want %q (completion order must match call order)",
				i, history[i].Payload.String(), text)
		}
	}
}

func TestChatHistoryManager_AppendOnly(t *testing.T) {
	m := NewChatHistoryManager(NewMemStore(), &StubGateway{})

	m.SendMessage(context.Background(), "w", "one")
	snapshot := m.History("w")
	firstID, firstText := snapshot[0].ID, snapshot[0].Payload.String()

	m.SendMessage(context.Background(), "w", "two")

	if len(m.History("w")) != 4 {
		t.Fatalf("transcript has %d messages, want 4", len(m.History("w")))
	}
	// The earlier snapshot and the surviving prefix are untouched
	if snapshot[0].ID != firstID || snapshot[0].Payload.String() != firstText {
		t.Error("snapshot mutated by later append")
	}
	current := m.History("w")
	if current[0].ID != firstID || current[0].Payload.String() != firstText {
		t.Error("existing message changed after later append")
	}
}

func TestChatHistoryManager_PersistsAcrossManagers(t *testing.T) {
	store := NewMemStore()
	m := NewChatHistoryManager(store, &StubGateway{})

	m.SendMessage(context.Background(), "w", "remember me")

	m2 := NewChatHistoryManager(store, &StubGateway{})
	history := m2.History("w")
	if len(history) != 2 || history[0].Payload.String() != "remember me" {
		t.Errorf("reloaded transcript = %+v, want persisted messages", history)
	}
	if !history[0].Timestamp.Equal(m.History("w")[0].Timestamp) {
		t.Error("timestamps must survive the persistence round trip")
	}
}

func TestChatHistoryManager_ClearHistory(t *testing.T) {
	store := NewMemStore()
	m := NewChatHistoryManager(store, &StubGateway{})

	m.SendMessage(context.Background(), "w1", "a")
	m.SendMessage(context.Background(), "w2", "b")

	m.ClearHistory("w1")

	if len(m.History("w1")) != 0 {
		t.Error("w1 transcript should be gone")
	}
	if len(m.History("w2")) != 2 {
		t.Error("w2 transcript should be untouched")
	}

	// The key disappears entirely, it is not an empty list
	var persisted map[string][]Message
	if !store.Load(KeyChatHistories, &persisted) {
		t.Fatal("transcript map should still be persisted")
	}
	if _, ok := persisted["w1"]; ok {
		t.Error("cleared workspace key must be removed, not emptied")
	}
}

func TestChatHistoryManager_ClearAll(t *testing.T) {
	store := NewMemStore()
	m := NewChatHistoryManager(store, &StubGateway{})

	m.SendMessage(context.Background(), "w1", "a")
	m.SendMessage(context.Background(), "w2", "b")

	m.ClearAll()

	if len(m.History("w1")) != 0 || len(m.History("w2")) != 0 {
		t.Error("all transcripts should be gone")
	}

	var persisted map[string][]Message
	if !store.Load(KeyChatHistories, &persisted) {
		t.Fatal("empty transcript map should be persisted")
	}
	if len(persisted) != 0 {
		t.Errorf("persisted map = %+v, want empty", persisted)
	}
}

func TestChatHistoryManager_StoreFailureStaysInMemory(t *testing.T) {
	store := NewMemStore()
	store.FailWrites = true
	m := NewChatHistoryManager(store, &StubGateway{})

	m.SendMessage(context.Background(), "w", "hi")

	// Persistence failed but the in-memory transcript is authoritative
	if len(m.History("w")) != 2 {
		t.Errorf("transcript has %d messages, want 2 despite write failures", len(m.History("w")))
	}
	if store.LastWriteErr() == nil {
		t.Error("LastWriteErr() = nil, want recorded failure")
	}
}

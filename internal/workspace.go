package internal

import "sync"

// ManagerState tracks the workspace manager's load lifecycle.
type ManagerState int

const (
	StateUninitialized ManagerState = iota
	StateLoading
	StateReady
)

// WorkspaceManager owns the workspace list and the active-workspace pointer.
// It persists both on every mutation and self-heals a dangling active pointer
// on load and on delete. All methods are safe for concurrent use.
type WorkspaceManager struct {
	mu    sync.RWMutex
	store BlobStore

	state      ManagerState
	workspaces []Workspace
	active     *Workspace
}

// NewWorkspaceManager constructs a manager and loads persisted state. Load
// failures are absorbed: a missing or unreadable list yields a synthesized
// default workspace, never an error.
func NewWorkspaceManager(store BlobStore) *WorkspaceManager {
	m := &WorkspaceManager{store: store, state: StateUninitialized}
	m.mu.Lock()
	m.load()
	m.mu.Unlock()
	return m
}

// load runs the uninitialized/loading/ready transition. Caller holds mu.
func (m *WorkspaceManager) load() {
	m.state = StateLoading

	var list []Workspace
	if !m.store.Load(KeyWorkspaces, &list) || list == nil {
		// Nothing usable persisted; start over with a default workspace.
		def := NewDefaultWorkspace()
		m.workspaces = []Workspace{def}
		m.active = &def
		m.persistList()
		m.persistActive()
		m.state = StateReady
		return
	}

	m.workspaces = list

	var active Workspace
	if m.store.Load(KeyActiveWorkspace, &active) {
		m.active = &active
	} else if len(list) > 0 {
		m.active = &list[0]
	} else {
		m.active = nil
	}
	m.healActive()

	m.state = StateReady
}

// healActive repairs a dangling active pointer. Caller holds mu.
func (m *WorkspaceManager) healActive() {
	if m.active == nil {
		return
	}
	for i := range m.workspaces {
		if m.workspaces[i].ID == m.active.ID {
			return
		}
	}
	if len(m.workspaces) > 0 {
		m.active = &m.workspaces[0]
	} else {
		m.active = nil
	}
	m.persistActive()
}

// State returns the manager's lifecycle state.
func (m *WorkspaceManager) State() ManagerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Workspaces returns a copy of the workspace list in insertion order.
func (m *WorkspaceManager) Workspaces() []Workspace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Workspace, len(m.workspaces))
	copy(out, m.workspaces)
	return out
}

// Active returns the active workspace, or nil when no workspace has focus.
// The pointer is re-resolved against the list so callers never observe a
// stale entry for a workspace that was since updated.
func (m *WorkspaceManager) Active() *Workspace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil
	}
	for i := range m.workspaces {
		if m.workspaces[i].ID == m.active.ID {
			ws := m.workspaces[i]
			return &ws
		}
	}
	ws := *m.active
	return &ws
}

// Add appends a workspace, makes it active, and persists both slots.
func (m *WorkspaceManager) Add(ws Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]Workspace, len(m.workspaces), len(m.workspaces)+1)
	copy(next, m.workspaces)
	m.workspaces = append(next, ws)
	m.active = &ws

	m.persistList()
	m.persistActive()
}

// Delete removes the workspace with the given ID. If it was active, the
// first remaining workspace takes over; with nothing left, a fresh default
// workspace is synthesized as the sole, active entry.
func (m *WorkspaceManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := make([]Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		if ws.ID != id {
			remaining = append(remaining, ws)
		}
	}
	m.workspaces = remaining

	if m.active != nil && m.active.ID == id {
		if len(remaining) > 0 {
			m.active = &remaining[0]
		} else {
			def := NewDefaultWorkspace()
			m.workspaces = []Workspace{def}
			m.active = &def
		}
		m.persistActive()
	}

	m.persistList()
}

// Update replaces the entry with a matching ID in place, preserving list
// order, and refreshes the active pointer if it targets that entry. Silently
// a no-op when no entry matches.
func (m *WorkspaceManager) Update(ws Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.workspaces {
		if m.workspaces[i].ID == ws.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	next := make([]Workspace, len(m.workspaces))
	copy(next, m.workspaces)
	next[idx] = ws
	m.workspaces = next
	m.persistList()

	if m.active != nil && m.active.ID == ws.ID {
		m.active = &ws
		m.persistActive()
	}
}

// SetActive changes which workspace has UI focus. Passing nil clears focus
// without touching persisted data. A workspace not yet in the list is
// accepted and persisted; callers add it first when it is new.
func (m *WorkspaceManager) SetActive(ws *Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws == nil {
		m.active = nil
		return
	}
	active := *ws
	m.active = &active
	m.persistActive()
}

// Refresh re-runs the load pipeline against the store.
func (m *WorkspaceManager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load()
}

// persistList writes the workspace list. Caller holds mu.
func (m *WorkspaceManager) persistList() {
	m.store.Save(KeyWorkspaces, m.workspaces)
}

// persistActive writes the active workspace slot. Caller holds mu.
func (m *WorkspaceManager) persistActive() {
	if m.active == nil {
		return
	}
	m.store.Save(KeyActiveWorkspace, m.active)
}

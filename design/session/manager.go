package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"printframe/core"
)

// ErrSessionNotFound is returned when no live session has the given id.
var ErrSessionNotFound = fmt.Errorf("session not found")

// ErrDesignNotFound is returned when hydration names a saved design the
// store does not have for that owner.
var ErrDesignNotFound = fmt.Errorf("saved design not found")

// Manager tracks the live editing sessions of the process. The lock guards
// only the session table; each Handle serializes access to its own editor,
// since a session has exactly one owner but HTTP requests may race.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Handle
	designs  core.DesignStore
}

// Handle is a managed session: the editor plus the mutex serializing the
// owner's requests against it.
type Handle struct {
	ID string

	mu     sync.Mutex
	editor *Editor
}

// With runs fn while holding the session's lock. All mutations and reads go
// through here so operations stay serialized in call order.
func (h *Handle) With(fn func(e *Editor) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.editor)
}

// NewManager creates a manager that persists submitted designs to the store.
func NewManager(designs core.DesignStore) *Manager {
	return &Manager{
		sessions: make(map[string]*Handle),
		designs:  designs,
	}
}

// Create starts an empty session for the given product context.
func (m *Manager) Create(productID, productColor string) *Handle {
	h := &Handle{
		ID:     ulid.Make().String(),
		editor: NewEditor(productID, productColor),
	}

	m.mu.Lock()
	m.sessions[h.ID] = h
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id": h.ID,
		"product_id": productID,
	}).Info("Editing session started")
	return h
}

// Hydrate starts a session from a previously saved design.
func (m *Manager) Hydrate(ctx context.Context, ownerID, designID string) (*Handle, error) {
	saved, err := m.designs.Get(ctx, ownerID, designID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDesignNotFound, designID, err)
	}
	// Saved bytes come in through the raw design PUT as well as Submit, so a
	// corrupted snapshot is a caller error, not a missing design.
	snap, err := DecodeSnapshot(saved.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidLayerParams, err)
	}

	h := &Handle{
		ID:     ulid.Make().String(),
		editor: NewEditor(snap.ProductID, snap.ProductHex),
	}
	if err := h.editor.Restore(snap); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[h.ID] = h
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id": h.ID,
		"design_id":  designID,
	}).Info("Editing session hydrated from saved design")
	return h, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return h, nil
}

// Close discards a session. Closing an unknown session is a no-op: the goal
// state is already reached.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	logrus.WithField("session_id", id).Info("Editing session closed")
}

// Submit persists the session's current design under the owner and returns
// the saved design's id. The session stays open; checkout closes it once
// the order is placed.
func (m *Manager) Submit(ctx context.Context, sessionID, ownerID, name string) (string, error) {
	h, err := m.Get(sessionID)
	if err != nil {
		return "", err
	}

	var (
		data      []byte
		productID string
	)
	if err := h.With(func(e *Editor) error {
		snap := e.Snapshot()
		productID = snap.ProductID
		var encErr error
		data, encErr = EncodeSnapshot(snap)
		return encErr
	}); err != nil {
		return "", err
	}

	saved := &core.SavedDesign{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Name:      name,
		ProductID: productID,
		Data:      data,
	}
	if err := m.designs.Save(ctx, saved); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"design_id":  saved.ID,
		"owner_id":   ownerID,
	}).Info("Design submitted")
	return saved.ID, nil
}

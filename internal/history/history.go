// Package history keeps a bounded undo/redo ring of serialized snapshots.
package history

import (
	"encoding/json"
	"fmt"

	"github.com/example/snapmark/internal/annotation"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 50

// Snapshot is the serialized layout of one history entry.
type Snapshot struct {
	Objects []*annotation.Object `json:"objects"`
	annotation.Counters
}

// Target receives restored state.
type Target interface {
	ReplaceAll(objects []*annotation.Object, c annotation.Counters)
}

// Manager is a linear history with a movable cursor. Entries are stored
// encoded so live objects can never alias them.
type Manager struct {
	entries  [][]byte
	index    int
	capacity int
}

// New returns an empty manager. A capacity below 1 selects DefaultCapacity.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{index: -1, capacity: capacity}
}

// Record drops any redo branch and appends the given state.
func (m *Manager) Record(objects []*annotation.Object, c annotation.Counters) error {
	data, err := Encode(objects, c)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	// Truncated and evicted slots are cleared so their snapshots, which can
	// hold encoded images, are not kept alive by the backing array.
	clear(m.entries[m.index+1:])
	m.entries = append(m.entries[:m.index+1], data)
	m.index++
	if over := len(m.entries) - m.capacity; over > 0 {
		n := copy(m.entries, m.entries[over:])
		clear(m.entries[n:])
		m.entries = m.entries[:n]
		m.index = n - 1
	}
	return nil
}

// Undo restores the previous entry into dst. It reports false when there
// is nothing to undo.
func (m *Manager) Undo(dst Target) (bool, error) {
	if m.index <= 0 {
		return false, nil
	}
	if err := m.restore(dst, m.index-1); err != nil {
		return false, err
	}
	m.index--
	return true, nil
}

// Redo restores the next entry into dst. It reports false at the newest
// entry.
func (m *Manager) Redo(dst Target) (bool, error) {
	if m.index >= len(m.entries)-1 {
		return false, nil
	}
	if err := m.restore(dst, m.index+1); err != nil {
		return false, err
	}
	m.index++
	return true, nil
}

func (m *Manager) restore(dst Target, i int) error {
	snap, err := Decode(m.entries[i])
	if err != nil {
		return fmt.Errorf("restore history %d: %w", i, err)
	}
	dst.ReplaceAll(snap.Objects, snap.Counters)
	return nil
}

func (m *Manager) CanUndo() bool { return m.index > 0 }

func (m *Manager) CanRedo() bool { return m.index < len(m.entries)-1 }

// Position returns the cursor (1-based) and the number of entries.
func (m *Manager) Position() (int, int) { return m.index + 1, len(m.entries) }

// Current decodes the entry under the cursor.
func (m *Manager) Current() (Snapshot, error) {
	if m.index < 0 {
		return Snapshot{}, fmt.Errorf("history is empty")
	}
	return Decode(m.entries[m.index])
}

// Encode serializes a snapshot.
func Encode(objects []*annotation.Object, c annotation.Counters) ([]byte, error) {
	if objects == nil {
		objects = []*annotation.Object{}
	}
	return json.Marshal(Snapshot{Objects: objects, Counters: c})
}

// Decode parses a snapshot into fresh objects.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	if s.Objects == nil {
		s.Objects = []*annotation.Object{}
	}
	return s, nil
}

package history

import (
	"testing"

	"github.com/example/snapmark/internal/annotation"
)

func rectAt(s *annotation.Store, x float64) *annotation.Object {
	return s.Create(&annotation.Rect{Box: annotation.Box{X: x, Y: 0, Width: 30, Height: 30}})
}

func record(t *testing.T, m *Manager, s *annotation.Store) {
	t.Helper()
	if err := m.Record(s.Objects(), s.Counters()); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestUndoRedoInverse(t *testing.T) {
	s := annotation.NewStore(100, 100)
	m := New(0)
	record(t, m, s)
	rectAt(s, 1)
	record(t, m, s)
	rectAt(s, 2)
	record(t, m, s)

	if ok, err := m.Undo(s); !ok || err != nil {
		t.Fatalf("undo = %v, %v", ok, err)
	}
	if s.Len() != 1 {
		t.Fatalf("after undo len = %d", s.Len())
	}
	if ok, _ := m.Redo(s); !ok {
		t.Fatalf("redo failed")
	}
	objs := s.Objects()
	if len(objs) != 2 || objs[1].Shape.(*annotation.Rect).X != 2 {
		t.Fatalf("redo did not restore the last state")
	}
	if ok, _ := m.Redo(s); ok {
		t.Fatalf("redo past newest should be a no-op")
	}
}

func TestUndoStopsAtInitialEntry(t *testing.T) {
	s := annotation.NewStore(0, 0)
	m := New(0)
	record(t, m, s)
	if ok, _ := m.Undo(s); ok {
		t.Fatalf("undo of the initial state should be a no-op")
	}
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("CanUndo/CanRedo should be false")
	}
}

func TestRecordTruncatesRedo(t *testing.T) {
	s := annotation.NewStore(0, 0)
	m := New(0)
	record(t, m, s)
	rectAt(s, 1)
	record(t, m, s)
	m.Undo(s)
	rectAt(s, 5)
	record(t, m, s)
	if m.CanRedo() {
		t.Fatalf("redo branch survived a new record")
	}
	if i, n := m.Position(); i != 2 || n != 2 {
		t.Fatalf("position = %d/%d", i, n)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	s := annotation.NewStore(0, 0)
	m := New(5)
	record(t, m, s)
	for i := 0; i < 5; i++ {
		rectAt(s, float64(i))
		record(t, m, s)
	}
	if _, n := m.Position(); n != 5 {
		t.Fatalf("entries = %d, want 5", n)
	}
	undos := 0
	for {
		ok, err := m.Undo(s)
		if err != nil {
			t.Fatalf("undo: %v", err)
		}
		if !ok {
			break
		}
		undos++
	}
	if undos != 4 {
		t.Fatalf("undos = %d, want 4", undos)
	}
	// The empty initial state was evicted.
	if s.Len() != 1 {
		t.Fatalf("oldest reachable state has %d objects, want 1", s.Len())
	}
}

func TestDroppedEntriesReleased(t *testing.T) {
	s := annotation.NewStore(0, 0)
	m := New(3)
	record(t, m, s)
	for i := 0; i < 6; i++ {
		rectAt(s, float64(i))
		record(t, m, s)
	}
	m.Undo(s)
	m.Undo(s)
	record(t, m, s)

	if _, n := m.Position(); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}
	for i, e := range m.entries[len(m.entries):cap(m.entries)] {
		if e != nil {
			t.Fatalf("slot %d past the end still holds a snapshot", len(m.entries)+i)
		}
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	s := annotation.NewStore(0, 0)
	m := New(0)
	o := rectAt(s, 10)
	record(t, m, s)
	o.Shape.(*annotation.Rect).X = 99

	snap, err := m.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got := snap.Objects[0].Shape.(*annotation.Rect).X; got != 10 {
		t.Fatalf("snapshot changed with live object: x = %v", got)
	}
	snap.Objects[0].Shape.(*annotation.Rect).X = 42
	again, _ := m.Current()
	if got := again.Objects[0].Shape.(*annotation.Rect).X; got != 10 {
		t.Fatalf("decoded snapshot aliases the stored entry: x = %v", got)
	}
}

func TestCountersTravelWithSnapshots(t *testing.T) {
	s := annotation.NewStore(100, 100)
	m := New(0)
	record(t, m, s)
	s.Create(&annotation.Stamp{Radius: 16, Number: s.NextStamp()})
	s.SetCanvas(300, 200)
	record(t, m, s)

	m.Undo(s)
	c := s.Counters()
	if c.NextStampNumber != 1 || c.CanvasWidth != 100 {
		t.Fatalf("counters after undo = %+v", c)
	}
	if c.NextID != 2 {
		t.Fatalf("NextID rolled back to %d", c.NextID)
	}
	m.Redo(s)
	if c := s.Counters(); c.NextStampNumber != 2 || c.CanvasWidth != 300 || c.CanvasHeight != 200 {
		t.Fatalf("counters after redo = %+v", c)
	}
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/typeid"
)

// Memory keeps every snapshot in process. It is what the server uses when no
// database is configured.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string][]*Snapshot
}

func NewMemory() *Memory {
	return &Memory{rooms: make(map[string][]*Snapshot)}
}

func (m *Memory) Latest(_ context.Context, roomID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps := m.rooms[roomID]
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return copySnapshot(snaps[len(snaps)-1]), nil
}

func (m *Memory) Save(_ context.Context, roomID string, doc *document.Document) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		RoomID:    roomID,
		Version:   len(m.rooms[roomID]) + 1,
		Document:  doc.Clone(),
		CreatedAt: time.Now().UTC(),
	}
	m.rooms[roomID] = append(m.rooms[roomID], snap)
	return copySnapshot(snap), nil
}

func (m *Memory) Close() {}

func copySnapshot(s *Snapshot) *Snapshot {
	out := *s
	out.Document = s.Document.Clone()
	return &out
}

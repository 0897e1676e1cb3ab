package scene

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/inamate/canvas/internal/document"
)

// Namer hands out display names ("Rectangle 3") per room. Counters live only
// as long as the room is open and never leak between rooms.
type Namer struct {
	mu    sync.Mutex
	rooms map[string]map[document.LayerType]int
}

func NewNamer() *Namer {
	return &Namer{rooms: make(map[string]map[document.LayerType]int)}
}

// Next returns the next free name for t in roomID.
func (n *Namer) Next(roomID string, t document.LayerType) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	counters := n.roomLocked(roomID)
	counters[t]++
	return fmt.Sprintf("%s %d", t, counters[t])
}

// Seed raises the counters past names already present in doc, so a reloaded
// room does not reuse them.
func (n *Namer) Seed(roomID string, doc *document.Document) {
	n.mu.Lock()
	defer n.mu.Unlock()
	counters := n.roomLocked(roomID)
	for _, l := range doc.Layers {
		prefix := string(l.Type()) + " "
		rest, ok := strings.CutPrefix(l.Base().Name, prefix)
		if !ok {
			continue
		}
		if num, err := strconv.Atoi(rest); err == nil && num > counters[l.Type()] {
			counters[l.Type()] = num
		}
	}
}

// Release forgets a room's counters.
func (n *Namer) Release(roomID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.rooms, roomID)
}

func (n *Namer) roomLocked(roomID string) map[document.LayerType]int {
	counters, ok := n.rooms[roomID]
	if !ok {
		counters = make(map[document.LayerType]int)
		n.rooms[roomID] = counters
	}
	return counters
}

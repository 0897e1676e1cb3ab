package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBringToFront(t *testing.T) {
	r := newRoom(t, "a", "b", "c", "d", "e")
	with(r, func(g *Graph) { g.BringToFront([]string{"d", "b"}) })
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, r.Snapshot().LayerIDs)
}

func TestSendToBack(t *testing.T) {
	r := newRoom(t, "a", "b", "c", "d", "e")
	with(r, func(g *Graph) { g.SendToBack([]string{"e", "c", "ghost"}) })
	assert.Equal(t, []string{"c", "e", "a", "b", "d"}, r.Snapshot().LayerIDs)
}

func TestBringForward(t *testing.T) {
	r := newRoom(t, "a", "b", "c", "d", "e")
	with(r, func(g *Graph) { g.BringForward([]string{"b", "c"}) })
	assert.Equal(t, []string{"a", "d", "b", "c", "e"}, r.Snapshot().LayerIDs)

	// The top layer cannot move, and the one under it must not jump over it.
	r = newRoom(t, "a", "b", "c")
	with(r, func(g *Graph) { g.BringForward([]string{"b", "c"}) })
	assert.Equal(t, []string{"a", "b", "c"}, r.Snapshot().LayerIDs)
}

func TestSendBackward(t *testing.T) {
	r := newRoom(t, "a", "b", "c", "d", "e")
	with(r, func(g *Graph) { g.SendBackward([]string{"c", "d"}) })
	assert.Equal(t, []string{"a", "c", "d", "b", "e"}, r.Snapshot().LayerIDs)

	r = newRoom(t, "a", "b", "c")
	with(r, func(g *Graph) { g.SendBackward([]string{"a", "b"}) })
	assert.Equal(t, []string{"a", "b", "c"}, r.Snapshot().LayerIDs)
}

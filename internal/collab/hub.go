// Package collab relays a room between its websocket clients. Each open room
// owns a storage.Room; clients submit operations that are applied there and
// every resulting change is fanned back out.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/storage"
	"github.com/inamate/canvas/internal/store"
)

const saveTimeout = 10 * time.Second

var ErrHubStopped = errors.New("hub stopped")

type Options struct {
	// MaxLayers caps inserts per room; zero means no cap.
	MaxLayers int
	// SaveInterval is how often dirty rooms are written; zero saves only
	// when a room closes or the hub stops.
	SaveInterval time.Duration
	Namer        *scene.Namer
}

type Room struct {
	id          string
	state       *storage.Room
	clients     map[string]*Client // clientID -> client
	saved       int64
	unsubscribe func()
}

type registration struct {
	client *Client
	done   chan error
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room // roomID -> room

	snapshots  store.SnapshotStore
	opts       Options
	register   chan registration
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(snapshots store.SnapshotStore, opts Options) *Hub {
	if opts.Namer == nil {
		opts.Namer = scene.NewNamer()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		snapshots:  snapshots,
		opts:       opts,
		register:   make(chan registration),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	var tick <-chan time.Time
	if h.opts.SaveInterval > 0 {
		ticker := time.NewTicker(h.opts.SaveInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case reg := <-h.register:
			reg.done <- h.addClient(reg.client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-tick:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop saves every dirty room and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Register adds client to its room, loading the room if it is not open yet.
// The client has received the current document when Register returns.
func (h *Hub) Register(client *Client) error {
	reg := registration{client: client, done: make(chan error, 1)}
	select {
	case h.register <- reg:
		return <-reg.done
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// Document returns a copy of an open room's scene and its version.
func (h *Hub) Document(roomID string) (*document.Document, int64, bool) {
	room := h.room(roomID)
	if room == nil {
		return nil, 0, false
	}
	return room.state.Snapshot(), room.state.Version(), true
}

// ReplaceDocument swaps the scene of an open room. It reports false when the
// room is not open.
func (h *Hub) ReplaceDocument(roomID string, doc *document.Document) bool {
	room := h.room(roomID)
	if room == nil {
		return false
	}
	room.state.Load(doc)
	h.opts.Namer.Seed(roomID, doc)
	return true
}

func (h *Hub) room(roomID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[roomID]
}

func (h *Hub) openRoom(roomID string) (*Room, error) {
	if room := h.room(roomID); room != nil {
		return room, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	doc := document.NewEmptyDocument()
	snap, err := h.snapshots.Latest(ctx, roomID)
	switch {
	case err == nil:
		doc = snap.Document
		if err := doc.Validate(); err != nil {
			slog.Warn("loaded inconsistent snapshot", "room", roomID, "snapshot", snap.ID, "error", err)
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}

	state := storage.NewRoom(roomID)
	state.Load(doc)
	h.opts.Namer.Seed(roomID, doc)

	room := &Room{
		id:      roomID,
		state:   state,
		clients: make(map[string]*Client),
		saved:   state.Version(),
	}
	room.unsubscribe = state.Subscribe(func(ch storage.Change) { h.relay(room, ch) })

	h.mu.Lock()
	h.rooms[roomID] = room
	h.mu.Unlock()

	slog.Info("room opened", "room", roomID, "layers", len(doc.LayerIDs))
	return room, nil
}

func (h *Hub) closeRoom(room *Room) {
	room.unsubscribe()
	h.saveRoom(room)
	h.opts.Namer.Release(room.id)
	slog.Info("room closed", "room", room.id)
}

func (h *Hub) addClient(client *Client) error {
	room, err := h.openRoom(client.RoomID)
	if err != nil {
		slog.Error("open room", "error", err, "room", client.RoomID)
		return err
	}

	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	room.state.Join(client.ClientID)

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	}))
	client.Send(newMessage(TypeDocSync, DocSyncPayload{
		Document: room.state.Snapshot(),
		Version:  room.state.Version(),
	}))
	client.Send(newMessage(TypePresenceState, PresenceStatePayload{
		Presences: h.presences(room, client.ClientID),
	}))

	h.broadcast(room, newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	}), client.ClientID)

	slog.Info("client joined", "user", client.UserID, "client", client.ClientID, "room", client.RoomID)
	return nil
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		client.close()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room.clients, client.ClientID)
	client.close()
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.RoomID)
	}
	h.mu.Unlock()

	room.state.Leave(client.ClientID)
	h.broadcast(room, newMessage(TypePresenceLeave, PresenceLeavePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	}), "")

	slog.Info("client left", "user", client.UserID, "client", client.ClientID, "room", client.RoomID)

	if empty {
		h.closeRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	version := room.state.Version()
	if version == room.saved {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	snap, err := h.snapshots.Save(ctx, room.id, room.state.Snapshot())
	if err != nil {
		slog.Error("save room", "error", err, "room", room.id)
		return
	}
	room.saved = version
	slog.Info("room saved", "room", room.id, "version", snap.Version)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room := h.room(sender.RoomID)
	if room == nil {
		return
	}

	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(room, sender, msg)
	case TypeHistoryUndo:
		room.state.History(sender.ClientID).Undo()
	case TypeHistoryRedo:
		room.state.History(sender.ClientID).Redo()
	case TypeHistoryPause:
		room.state.History(sender.ClientID).Pause()
	case TypeHistoryResume:
		room.state.History(sender.ClientID).Resume()
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handleOpSubmit(room *Room, sender *Client, msg *Message) {
	var submit OpSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.Send(newMessage(TypeOpNack, OpNackPayload{Reason: "invalid payload"}))
		return
	}

	ids := make([]string, 0, len(submit.Operations))
	for _, op := range submit.Operations {
		if err := op.validate(); err != nil {
			slog.Warn("rejected operation", "error", err, "client", sender.ClientID)
			sender.Send(newMessage(TypeOpNack, OpNackPayload{OperationID: op.ID, Reason: err.Error()}))
			return
		}
		ids = append(ids, op.ID)
	}

	room.state.Mutate(sender.ClientID, func(tx *storage.Tx) {
		g := scene.New(tx)
		for _, op := range submit.Operations {
			applyOperation(g, op, h.opts.MaxLayers)
		}
	})

	sender.Send(newMessage(TypeOpAck, OpAckPayload{
		OperationIDs: ids,
		Version:      room.state.Version(),
	}))
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var p PresencePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	room.state.Mutate(sender.ClientID, func(tx *storage.Tx) {
		selection := slices.DeleteFunc(slices.Clone(p.Selection), func(id string) bool {
			return !tx.Layers().Has(id)
		})
		tx.UpdateMyPresence(func(pr *storage.Presence) {
			pr.Cursor = p.Cursor
			pr.Selection = selection
			pr.PencilDraft = p.PencilDraft
			pr.PenColor = p.PenColor
		}, false)
	})
}

// relay turns a storage change into messages for the room's clients.
func (h *Hub) relay(room *Room, ch storage.Change) {
	if ch.Left {
		return
	}

	if ch.Layers != nil || ch.LayerIDs != nil {
		payload := DocChangePayload{
			ClientID: ch.ConnID,
			LayerIDs: ch.LayerIDs,
			Version:  ch.Version,
		}
		if len(ch.Layers) > 0 {
			payload.Layers = make(map[string]document.LayerJSON, len(ch.Layers))
			for id, l := range ch.Layers {
				payload.Layers[id] = document.LayerJSON{Layer: l}
			}
		}
		h.broadcast(room, newMessage(TypeDocChange, payload), "")
	}

	if ch.Presence != nil && ch.ConnID != "" {
		msg := newMessage(TypePresenceUpdate, h.presencePayload(room, ch.ConnID, ch.Presence))
		if msg != nil {
			msg.ClientID = ch.ConnID
		}
		h.broadcast(room, msg, ch.ConnID)
	}
}

func (h *Hub) presencePayload(room *Room, clientID string, p *storage.Presence) *PresencePayload {
	out := &PresencePayload{
		Cursor:      p.Cursor,
		Selection:   p.Selection,
		PencilDraft: p.PencilDraft,
		PenColor:    p.PenColor,
	}
	h.mu.RLock()
	if c, ok := room.clients[clientID]; ok {
		out.UserID = c.UserID
		out.DisplayName = c.DisplayName
	}
	h.mu.RUnlock()
	return out
}

func (h *Hub) presences(room *Room, exclude string) map[string]*PresencePayload {
	h.mu.RLock()
	ids := make([]string, 0, len(room.clients))
	for id := range room.clients {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	h.mu.RUnlock()

	out := make(map[string]*PresencePayload, len(ids))
	for _, id := range ids {
		if p, ok := room.state.Presence(id); ok {
			out[id] = h.presencePayload(room, id, p)
		}
	}
	return out
}

func (h *Hub) broadcast(room *Room, msg *Message, excludeClientID string) {
	if msg == nil {
		return
	}
	msg.RoomID = room.id

	h.mu.RLock()
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

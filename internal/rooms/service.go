// Package rooms is the HTTP surface for creating rooms and reading or
// replacing their scene outside a websocket session.
package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/inamate/canvas/internal/collab"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/store"
	"github.com/inamate/canvas/internal/typeid"
)

var (
	ErrNotFound        = errors.New("room not found")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidRoomID   = errors.New("invalid room id")
)

type Service struct {
	hub       *collab.Hub
	snapshots store.SnapshotStore
}

func NewService(hub *collab.Hub, snapshots store.SnapshotStore) *Service {
	return &Service{hub: hub, snapshots: snapshots}
}

type Room struct {
	ID       string             `json:"id"`
	Version  int64              `json:"version"`
	Live     bool               `json:"live"`
	Document *document.Document `json:"document,omitempty"`
}

// Create makes a new room, optionally seeded with the sample scene.
func (s *Service) Create(ctx context.Context, sample bool) (*Room, error) {
	doc := document.NewEmptyDocument()
	if sample {
		doc = document.NewSampleDocument()
	}
	roomID := typeid.NewRoomID()
	snap, err := s.snapshots.Save(ctx, roomID, doc)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &Room{ID: roomID, Version: int64(snap.Version), Document: doc}, nil
}

// Get returns the live scene of an open room, or its latest snapshot.
func (s *Service) Get(ctx context.Context, roomID string) (*Room, error) {
	if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoomID, err)
	}
	if doc, version, ok := s.hub.Document(roomID); ok {
		return &Room{ID: roomID, Version: version, Live: true, Document: doc}, nil
	}

	snap, err := s.snapshots.Latest(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &Room{ID: roomID, Version: int64(snap.Version), Document: snap.Document}, nil
}

// Replace stores doc as the room's scene and pushes it to connected clients.
func (s *Service) Replace(ctx context.Context, roomID string, doc *document.Document) error {
	if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoomID, err)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, err := s.snapshots.Save(ctx, roomID, doc); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.hub.ReplaceDocument(roomID, doc)
	return nil
}

// Package store persists room snapshots between sessions.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/inamate/canvas/internal/document"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved version of a room's scene.
type Snapshot struct {
	ID        string             `json:"id"`
	RoomID    string             `json:"roomId"`
	Version   int                `json:"version"`
	Document  *document.Document `json:"document"`
	CreatedAt time.Time          `json:"createdAt"`
}

type SnapshotStore interface {
	// Latest returns the newest snapshot of roomID or ErrNotFound.
	Latest(ctx context.Context, roomID string) (*Snapshot, error)
	// Save stores doc as the next version of roomID.
	Save(ctx context.Context, roomID string, doc *document.Document) (*Snapshot, error)
	Close()
}

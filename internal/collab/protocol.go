package collab

import (
	"encoding/json"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geometry"
	"github.com/inamate/canvas/internal/scene"
)

type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeError = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync   = "doc.sync"
	TypeDocChange = "doc.change"

	// Operations
	TypeOpSubmit = "op.submit"
	TypeOpAck    = "op.ack"
	TypeOpNack   = "op.nack"

	// Per-connection undo history
	TypeHistoryUndo   = "history.undo"
	TypeHistoryRedo   = "history.redo"
	TypeHistoryPause  = "history.pause"
	TypeHistoryResume = "history.resume"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type DocSyncPayload struct {
	Document *document.Document `json:"document"`
	Version  int64              `json:"version"`
}

// DocChangePayload carries the layers one mutation touched. A null layer
// means it was deleted; LayerIDs is only set when the z-order changed.
type DocChangePayload struct {
	ClientID string                        `json:"clientId,omitempty"`
	Layers   map[string]document.LayerJSON `json:"layers,omitempty"`
	LayerIDs []string                      `json:"layerIds,omitempty"`
	Version  int64                         `json:"version"`
}

// Operation types
const (
	OpLayerInsert   = "layer.insert"
	OpLayerSet      = "layer.set"
	OpLayerPatch    = "layer.patch"
	OpLayerDelete   = "layer.delete"
	OpLayerMove     = "layer.move"
	OpLayerReparent = "layer.reparent"
)

// Operation is one scene edit sent by a client.
type Operation struct {
	ID      string              `json:"id"`
	Type    string              `json:"type"`
	LayerID string              `json:"layerId"`
	Layer   *document.LayerJSON `json:"layer,omitempty"`   // insert, set
	Patch   *scene.Patch        `json:"patch,omitempty"`   // patch
	Index   *int                `json:"index,omitempty"`   // move
	FrameID string              `json:"frameId,omitempty"` // insert, reparent
}

// OpSubmitPayload is applied as one atomic mutation.
type OpSubmitPayload struct {
	Operations []Operation `json:"operations"`
}

type OpAckPayload struct {
	OperationIDs []string `json:"operationIds"`
	Version      int64    `json:"version"`
}

type OpNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

type PresencePayload struct {
	Cursor      *geometry.Point      `json:"cursor"`
	Selection   []string             `json:"selection"`
	PencilDraft []document.PathPoint `json:"pencilDraft,omitempty"`
	PenColor    *document.Color      `json:"penColor,omitempty"`
	UserID      string               `json:"userId,omitempty"`
	DisplayName string               `json:"displayName,omitempty"`
}

// PresenceStatePayload maps client id to presence.
type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS room_snapshots (
	id         TEXT PRIMARY KEY,
	room_id    TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (room_id, version)
)`

// Postgres stores snapshots as JSONB rows, one per version.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the snapshot table if
// needed.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Latest(ctx context.Context, roomID string) (*Snapshot, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, room_id, version, document, created_at
		FROM room_snapshots
		WHERE room_id = $1
		ORDER BY version DESC
		LIMIT 1`, roomID)

	var (
		snap Snapshot
		raw  []byte
	)
	if err := row.Scan(&snap.ID, &snap.RoomID, &snap.Version, &raw, &snap.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	doc := document.NewEmptyDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	snap.Document = doc
	return &snap, nil
}

func (p *Postgres) Save(ctx context.Context, roomID string, doc *document.Document) (*Snapshot, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	snap := Snapshot{ID: typeid.NewSnapshotID(), RoomID: roomID, Document: doc}
	err = tx.QueryRow(ctx, `
		INSERT INTO room_snapshots (id, room_id, version, document)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		FROM room_snapshots WHERE room_id = $2
		RETURNING version, created_at`,
		snap.ID, roomID, raw,
	).Scan(&snap.Version, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &snap, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

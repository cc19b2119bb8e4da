package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SaveGraph stores (or replaces) a canonical graph payload.
func (s *Store) SaveGraph(ctx context.Context, id, name string, g *skillgraph.KnowledgeGraph) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (id, name, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		id, name, string(payload), now, now)
	if err != nil {
		return fmt.Errorf("save graph %s: %w", id, err)
	}
	return nil
}

// LoadGraph reads a canonical graph payload by id.
func (s *Store) LoadGraph(ctx context.Context, id string) (*skillgraph.KnowledgeGraph, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM graphs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("graph %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", id, err)
	}

	var g skillgraph.KnowledgeGraph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return nil, fmt.Errorf("decode graph %s: %w", id, err)
	}
	return &g, nil
}

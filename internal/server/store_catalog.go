package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
)

var ErrNotFound = errors.New("not found")

// CatalogStore persists authored game catalogs as JSONB documents.
// The live session never reads from here; loading a catalog copies it
// into memory and saving snapshots it back.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// CatalogSummary is a list entry for the catalog picker.
type CatalogSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UpdatedAt   string `json:"updatedAt"`
}

func (s *CatalogStore) List(ctx context.Context) ([]CatalogSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data), updated_at FROM catalogs ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CatalogSummary
	for rows.Next() {
		var data, updatedAt string
		if err := rows.Scan(&data, &updatedAt); err != nil {
			return nil, err
		}
		var g game.Game
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, err
		}
		out = append(out, CatalogSummary{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			UpdatedAt:   updatedAt,
		})
	}
	return out, rows.Err()
}

// Save upserts the catalog keyed by the game's id.
func (s *CatalogStore) Save(ctx context.Context, g *game.Game) error {
	g.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO catalogs (id, name, data, updated_at) VALUES (?, ?, jsonb(?), ?)`,
		g.ID, g.Name, string(data), g.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *CatalogStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM catalogs WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g game.Game
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

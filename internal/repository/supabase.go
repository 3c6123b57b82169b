package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/pkg/supabase"
)

// DefaultSupabaseTable is the table sessions are inserted into
const DefaultSupabaseTable = "study_sessions"

// supabaseRow is the wire shape of a study_sessions row
type supabaseRow struct {
	ID        string         `json:"id"`
	Payload   map[string]any `json:"payload"`
	Hour      int            `json:"hour"`
	DayOfWeek int            `json:"day_of_week"`
	Score     float64        `json:"score"`
	SavedAt   time.Time      `json:"saved_at"`
}

type supabaseSessionStore struct {
	client *supabase.Client
	table  string
}

// NewSupabaseSessionStore creates a store backed by a Supabase table
func NewSupabaseSessionStore(client *supabase.Client, table string) SessionStore {
	if table == "" {
		table = DefaultSupabaseTable
	}
	return &supabaseSessionStore{client: client, table: table}
}

func (r *supabaseSessionStore) Append(ctx context.Context, session *models.SavedSession) (string, error) {
	if err := ensureID(session); err != nil {
		return "", err
	}

	row := supabaseRow{
		ID:        session.ID,
		Payload:   session.Payload,
		Hour:      session.Hour,
		DayOfWeek: session.DayOfWeek,
		Score:     session.Score,
		SavedAt:   session.SavedAt.UTC(),
	}

	body, err := r.client.Insert(ctx, r.table, row)
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return "", fmt.Errorf("failed to insert session %s: %w", session.ID, ErrDuplicateID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no session returned")
	}

	return rows[0].ID, nil
}

func (r *supabaseSessionStore) Get(ctx context.Context, id string) (*models.SavedSession, error) {
	body, err := r.client.Query(ctx, r.table, map[string]string{
		"id": fmt.Sprintf("eq.%s", id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	row := rows[0]
	return &models.SavedSession{
		ID:        row.ID,
		Payload:   row.Payload,
		Hour:      row.Hour,
		DayOfWeek: row.DayOfWeek,
		Score:     row.Score,
		SavedAt:   row.SavedAt,
	}, nil
}

func (r *supabaseSessionStore) Close() error { return nil }

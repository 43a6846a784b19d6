// Package searchlog stores the query log behind popular searches and
// per-user search history.
package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shicihub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Log(ctx context.Context, e models.SearchLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var userID any
	if e.UserID != "" {
		userID = e.UserID
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO search_logs (id, query, user_id, results_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Query, userID, e.ResultsCount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

// Popular returns the most frequent queries, ties broken by the most recent
// use.
func (r *Repo) Popular(ctx context.Context, limit int) ([]models.PopularTerm, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n
		FROM search_logs
		GROUP BY query
		ORDER BY n DESC, MAX(created_at) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular: %w", err)
	}
	defer rows.Close()

	var out []models.PopularTerm
	for rows.Next() {
		var t models.PopularTerm
		if err := rows.Scan(&t.Text, &t.Count); err != nil {
			return nil, fmt.Errorf("scan popular: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// History lists one user's searches, newest first.
func (r *Repo) History(ctx context.Context, userID string, limit int) ([]models.SearchLogEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return []models.SearchLogEntry{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, query, user_id, results_count, created_at
		FROM search_logs
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []models.SearchLogEntry{}
	for rows.Next() {
		var e models.SearchLogEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.UserID, &e.ResultsCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

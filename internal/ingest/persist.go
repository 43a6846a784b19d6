package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"shicihub/pkg/models"
)

// SaveToDatabase upserts poems into the `poems` table in one transaction.
// An existing id keeps its row (and its seq, so store order is stable) and
// gets the new field values.
func SaveToDatabase(ctx context.Context, db *sql.DB, poems []models.Poem) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO poems (id, title, author, dynasty, content, tags, source, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  dynasty = excluded.dynasty,
		  content = excluded.content,
		  tags = excluded.tags,
		  source = excluded.source,
		  metadata = excluded.metadata,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, p := range poems {
		contentJSON, err := json.Marshal(p.Content)
		if err != nil {
			return fmt.Errorf("marshal content for %s: %w", p.ID, err)
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", p.ID, err)
		}
		var metadata any
		if len(p.Metadata) > 0 {
			b, err := json.Marshal(p.Metadata)
			if err != nil {
				return fmt.Errorf("marshal metadata for %s: %w", p.ID, err)
			}
			metadata = string(b)
		}

		if _, err := stmt.ExecContext(
			ctx,
			p.ID,
			p.Title,
			p.Author,
			p.Dynasty,
			string(contentJSON),
			string(tagsJSON),
			p.Source,
			metadata,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

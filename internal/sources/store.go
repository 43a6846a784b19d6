package sources

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// Store serves the bulk-ingested collections (全唐诗, 宋词, ...) from the
// `poems` table. It is not cached: ingestion may grow the table while the
// server runs, so browse, random and daily reads page in SQL instead of
// listing the table.
//
// Matching runs through the functions pkg/database registers on the
// connection (fold, or_default, lines_contain, has_lines), so a row matches
// in SQL exactly when its normalized poem would match in memory.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Name() string { return "store" }

const poemColumns = `id, title, author, dynasty, content, tags, source, metadata`

// Column expressions with the normalizer's fallbacks applied.
const (
	titleExpr   = `or_default(title, '` + utils.Untitled + `')`
	authorExpr  = `or_default(author, '` + utils.Anonymous + `')`
	dynastyExpr = `or_default(dynasty, '` + utils.UnknownDynasty + `')`

	// rows the normalizer would drop are never poems
	validRows = `id <> '' AND has_lines(content)`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) List(ctx context.Context) ([]models.Poem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+poemColumns+` FROM poems WHERE `+validRows+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	return collectRows(rows)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Poem, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+poemColumns+` FROM poems WHERE id = ?`, id)
	p, err := scanPoem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("store getByID: %w", err)
	}
	if !p.Valid() {
		return nil, nil
	}
	return &p, nil
}

// Search matches the folded query against title, author, every content
// line and every tag.
func (s *Store) Search(ctx context.Context, query string) ([]models.Poem, error) {
	q := utils.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+poemColumns+`
		FROM poems
		WHERE `+validRows+`
		  AND (instr(fold(`+titleExpr+`), ?) > 0
		   OR instr(fold(`+authorExpr+`), ?) > 0
		   OR lines_contain(content, ?)
		   OR lines_contain(tags, ?))
		ORDER BY seq ASC
	`, q, q, q, q)
	if err != nil {
		return nil, fmt.Errorf("store search: %w", err)
	}
	return collectRows(rows)
}

// where renders f as extra conditions on validRows.
func where(f Filter) (string, []any) {
	clause := validRows
	var args []any
	if f.Dynasty != "" {
		clause += ` AND ` + dynastyExpr + ` = ?`
		args = append(args, f.Dynasty)
	}
	if f.Q != "" {
		clause += ` AND (instr(fold(` + titleExpr + `), ?) > 0 OR instr(fold(` + authorExpr + `), ?) > 0)`
		args = append(args, f.Q, f.Q)
	}
	return clause, args
}

// Count returns the number of stored poems passing f.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	clause, args := where(f)
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM poems WHERE `+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("store count: %w", err)
	}
	return n, nil
}

// Range returns at most limit poems passing f, starting at offset in
// insertion order.
func (s *Store) Range(ctx context.Context, f Filter, offset, limit int) ([]models.Poem, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []models.Poem{}, nil
	}
	clause, args := where(f)
	args = append(args, limit, offset)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+poemColumns+`
		FROM poems
		WHERE `+clause+`
		ORDER BY seq ASC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("store range: %w", err)
	}
	poems, err := collectRows(rows)
	if poems == nil && err == nil {
		poems = []models.Poem{}
	}
	return poems, err
}

func (s *Store) Authors(ctx context.Context) ([]models.AuthorCount, error) {
	// with a single MIN() aggregate sqlite takes the bare dynasty column
	// from the author's first row
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+authorExpr+` AS a, `+dynastyExpr+`, COUNT(*), MIN(seq) AS first
		FROM poems
		WHERE `+validRows+`
		GROUP BY a
		ORDER BY first ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store authors: %w", err)
	}
	defer rows.Close()

	var out []models.AuthorCount
	for rows.Next() {
		var (
			ac    models.AuthorCount
			first int64
		)
		if err := rows.Scan(&ac.Author, &ac.Dynasty, &ac.Count, &first); err != nil {
			return nil, fmt.Errorf("store authors scan: %w", err)
		}
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *Store) Dynasties(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+dynastyExpr+` AS d, MIN(seq) AS first
		FROM poems
		WHERE `+validRows+`
		GROUP BY d
		ORDER BY first ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store dynasties: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			d     string
			first int64
		)
		if err := rows.Scan(&d, &first); err != nil {
			return nil, fmt.Errorf("store dynasties scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func collectRows(rows *sql.Rows) ([]models.Poem, error) {
	defer rows.Close()

	var out []models.Poem
	for rows.Next() {
		p, err := scanPoem(rows)
		if err != nil {
			return nil, fmt.Errorf("store scan: %w", err)
		}
		if p.Valid() {
			out = append(out, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func scanPoem(row rowScanner) (models.Poem, error) {
	var (
		p            models.Poem
		contentJSON  string
		tagsJSON     string
		metadataJSON sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Dynasty, &contentJSON, &tagsJSON, &p.Source, &metadataJSON); err != nil {
		return models.Poem{}, err
	}
	return normalizeStoreRow(p, contentJSON, tagsJSON, metadataJSON.String), nil
}

// normalizeStoreRow is the normalizer for stored rows: decode the JSON
// columns and apply the same fallbacks as every other source.
func normalizeStoreRow(p models.Poem, contentJSON, tagsJSON, metadataJSON string) models.Poem {
	var content, tags []string
	_ = json.Unmarshal([]byte(contentJSON), &content)
	_ = json.Unmarshal([]byte(tagsJSON), &tags)

	p.Title = utils.OrDefault(p.Title, untitled)
	p.Author = utils.OrDefault(p.Author, anonymous)
	p.Dynasty = utils.OrDefault(p.Dynasty, utils.UnknownDynasty)
	p.Content = utils.CleanLines(content)
	p.Tags = utils.Dedupe(tags...)
	if p.Source == "" {
		p.Source = "store"
	}
	if metadataJSON != "" {
		if meta, err := utils.DecodeMetadata([]byte(metadataJSON)); err == nil && len(meta) > 0 {
			p.Metadata = meta
		}
	}
	return p
}

// Package database opens the sqlite file that holds ingested poems and the
// search log.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"

	"shicihub/pkg/utils"
)

// DriverName is go-sqlite3 with the poem matching functions registered on
// every connection:
//
//	fold(text)                  utils.Fold
//	or_default(text, def)       utils.OrDefault
//	lines_contain(json, folded) any cleaned line of a JSON array contains folded
//	has_lines(json)             the JSON array has a non-blank line
//
// Queries use them so sqlite matches exactly like the in-memory sources.
const DriverName = "sqlite3_shici"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{ConnectHook: registerFuncs})
}

func registerFuncs(conn *sqlite3.SQLiteConn) error {
	if err := conn.RegisterFunc("fold", utils.Fold, true); err != nil {
		return fmt.Errorf("register fold: %w", err)
	}
	if err := conn.RegisterFunc("or_default", utils.OrDefault, true); err != nil {
		return fmt.Errorf("register or_default: %w", err)
	}
	if err := conn.RegisterFunc("lines_contain", linesContain, true); err != nil {
		return fmt.Errorf("register lines_contain: %w", err)
	}
	if err := conn.RegisterFunc("has_lines", hasLines, true); err != nil {
		return fmt.Errorf("register has_lines: %w", err)
	}
	return nil
}

func decodeLines(raw string) []string {
	var lines []string
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil
	}
	return utils.CleanLines(lines)
}

func linesContain(raw, folded string) bool {
	return utils.AnyContains(decodeLines(raw), folded)
}

func hasLines(raw string) bool {
	return len(decodeLines(raw)) > 0
}

// Open creates the parent directory of path if needed and opens the
// database in WAL mode.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("open sqlite: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open(DriverName, path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

const DefaultBatchSize = 50

// Progress is reported after every stored batch.
type Progress struct {
	File  string
	Done  int // poems of File stored so far
	Total int // poems in File
}

type Result struct {
	Files  int
	Poems  int
	Failed []string // files skipped because they could not be read or stored
}

type Ingester struct {
	DB         *sql.DB
	BatchSize  int
	OnFile     func(file string, total int) // called before a file's first batch
	OnProgress func(Progress)
	Logger     *log.Logger
}

func New(db *sql.DB) *Ingester {
	return &Ingester{DB: db, BatchSize: DefaultBatchSize, Logger: log.Default()}
}

// Files lists the dump files of c under dataDir in name order.
func Files(dataDir string, c Collection) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, c.Dir, c.Prefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", c.Dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Run loads every file of c. A file that cannot be read, decoded or stored
// is logged and skipped; the remaining files still load.
func (in *Ingester) Run(ctx context.Context, dataDir string, c Collection) (Result, error) {
	files, err := Files(dataDir, c)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no %s*.json files in %s", c.Prefix, filepath.Join(dataDir, c.Dir))
	}

	var res Result
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := in.ingestFile(ctx, c, path)
		res.Poems += n
		if err != nil {
			in.logf("[ingest] %s: %v", filepath.Base(path), err)
			res.Failed = append(res.Failed, filepath.Base(path))
			continue
		}
		res.Files++
	}
	in.logf("[ingest] %s: %d poems from %d files (%d failed)", c.Name, res.Poems, res.Files, len(res.Failed))
	return res, nil
}

func (in *Ingester) ingestFile(ctx context.Context, c Collection, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	var raws []rawPoem
	if err := json.Unmarshal(b, &raws); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}

	file := filepath.Base(path)
	poems := normalize(c, file, raws)
	if in.OnFile != nil {
		in.OnFile(file, len(poems))
	}

	size := in.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	stored := 0
	for start := 0; start < len(poems); start += size {
		end := min(start+size, len(poems))
		if err := SaveToDatabase(ctx, in.DB, poems[start:end]); err != nil {
			return stored, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		stored = end
		if in.OnProgress != nil {
			in.OnProgress(Progress{File: file, Done: stored, Total: len(poems)})
		}
	}
	return stored, nil
}

func (in *Ingester) logf(format string, args ...any) {
	if in.Logger != nil {
		in.Logger.Printf(format, args...)
	}
}

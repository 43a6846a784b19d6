package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"shicihub/internal/ingest"
	"shicihub/pkg/database"
)

var (
	ingestBatch    int
	ingestNoStatus bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <collection>",
	Short: "Load a JSON dump collection into the store",
	Long: "Reads <data-dir>/<collection dir>/<prefix>*.json and upserts every poem into the store.\n" +
		"Collections: " + strings.Join(ingest.Names(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.IntVar(&ingestBatch, "batch", ingest.DefaultBatchSize, "Poems per transaction")
	f.BoolVar(&ingestNoStatus, "no-progress", false, "Disable progress bars")
}

func runIngest(cmd *cobra.Command, args []string) error {
	c, err := ingest.Lookup(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	files, err := ingest.Files(cfg.DataDir, c)
	if err != nil {
		return err
	}

	in := ingest.New(db)
	in.BatchSize = ingestBatch

	if !ingestNoStatus && len(files) > 0 {
		uiprogress.Start()
		overall := uiprogress.AddBar(len(files)).AppendCompleted().PrependElapsed()
		overall.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-8s %d/%d files", c.Name, b.Current(), len(files))
		})

		var current *uiprogress.Bar
		in.OnFile = func(file string, total int) {
			if current != nil {
				_ = current.Set(current.Total)
			}
			if total == 0 {
				current = nil
				_ = overall.Incr()
				return
			}
			name := file
			current = uiprogress.AddBar(total).AppendCompleted()
			current.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("%-24s", name)
			})
		}
		in.OnProgress = func(p ingest.Progress) {
			if current != nil {
				_ = current.Set(p.Done)
			}
			if p.Done == p.Total {
				_ = overall.Incr()
			}
		}
		defer uiprogress.Stop()
	}

	res, err := in.Run(context.Background(), cfg.DataDir, c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d poems from %d files into %s\n", c.Name, res.Poems, res.Files, cfg.DBPath)
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  skipped %s\n", filepath.Base(f))
	}
	return nil
}

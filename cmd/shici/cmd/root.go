package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shicihub/internal/app"
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

var (
	flagConfig  string
	flagDataDir string
	flagDB      string
	flagBackend string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "shici",
	Short:         "shici: classical poetry corpus tools",
	Long:          "Load poetry collections into the local store and query the aggregated corpus.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !flagVerbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file (overrides SHICI_CONFIG)")
	pf.StringVar(&flagDataDir, "data-dir", "", "source data directory")
	pf.StringVar(&flagDB, "db", "", "sqlite database path")
	pf.StringVar(&flagBackend, "backend", "", "search backend: none, index or grpc")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Show component logs")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig resolves the app config with command-line flags applied last.
func loadConfig() (utils.AppConfig, error) {
	if flagConfig != "" {
		if err := os.Setenv("SHICI_CONFIG", flagConfig); err != nil {
			return utils.AppConfig{}, err
		}
	}
	cfg, err := utils.LoadAppConfig()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagBackend != "" {
		cfg.SearchBackend = flagBackend
	}
	return cfg, utils.ValidateAppConfig(&cfg)
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func printPoem(w io.Writer, p *models.Poem) {
	if p == nil {
		fmt.Fprintln(w, "(no poem)")
		return
	}
	fmt.Fprintf(w, "%s\n%s · %s\n\n", p.Title, p.Dynasty, p.Author)
	for _, line := range p.Content {
		fmt.Fprintln(w, line)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "\n[%s] %s/%s\n", strings.Join(p.Tags, ", "), p.Source, p.ID)
	}
}

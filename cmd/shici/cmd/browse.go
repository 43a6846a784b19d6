package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one poem by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Corpus.GetByID(cmd.Context(), args[0])
		if p == nil {
			return fmt.Errorf("poem %q not found", args[0])
		}
		printPoem(cmd.OutOrStdout(), p)
		return nil
	},
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Print today's poem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		printPoem(cmd.OutOrStdout(), a.Corpus.GetDaily(cmd.Context()))
		return nil
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random poem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		printPoem(cmd.OutOrStdout(), a.Corpus.GetRandom(cmd.Context()))
		return nil
	},
}

var statsAuthors int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-source counts and top authors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		total := 0
		fmt.Fprintln(tw, "SOURCE\tPOEMS")
		for _, s := range a.Corpus.Stats(ctx) {
			fmt.Fprintf(tw, "%s\t%d\n", s.Source, s.Poems)
			total += s.Poems
		}
		fmt.Fprintf(tw, "total\t%d\n", total)

		if statsAuthors > 0 {
			fmt.Fprintln(tw, "\nAUTHOR\tPOEMS")
			authors := a.Corpus.Authors(ctx)
			for i, ac := range authors {
				if i == statsAuthors {
					break
				}
				fmt.Fprintf(tw, "%s\t%d\n", ac.Author, ac.Count)
			}
		}
		return tw.Flush()
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsAuthors, "authors", 10, "Top authors to list (0 to skip)")
}

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shicihub/internal/search"
)

var (
	searchDynasty string
	searchSort    string
	searchLimit   int
	searchOffset  int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the aggregated corpus",
	Long:  "Ranks poems whose title, author, content or tags contain the query. Uses the configured backend and falls back to a local scan.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Complete a title, author or tag prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		for _, s := range a.Engine.Suggest(cmd.Context(), args[0], suggestLimit) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s (%d)\n", s.Type, s.Text, s.Count)
		}
		return nil
	},
}

var popularLimit int

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most searched queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		for i, t := range a.Engine.Popular(cmd.Context(), popularLimit) {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s (%d)\n", i+1, t.Text, t.Count)
		}
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchDynasty, "dynasty", "d", "", "Only poems of this dynasty")
	f.StringVarP(&searchSort, "sort", "s", "relevance", "Sort by relevance, title, author or dynasty")
	f.IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	f.IntVar(&searchOffset, "offset", 0, "Skip this many results")

	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", search.DefaultSuggestLimit, "Maximum suggestions")
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", search.DefaultPopularLimit, "Maximum terms")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	results := a.Engine.Search(ctx, query, search.Options{
		Limit:   searchLimit,
		Offset:  searchOffset,
		Dynasty: searchDynasty,
		SortBy:  search.ParseSortBy(searchSort),
	})

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "no poems match %q\n", query)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tMATCH\tTITLE\tAUTHOR\tDYNASTY\tID")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.MatchScore, r.MatchType, r.Title, r.Author, r.Dynasty, r.Key())
	}
	return tw.Flush()
}

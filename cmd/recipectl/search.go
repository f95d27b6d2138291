package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var k int
	var language string
	search := &cobra.Command{
		Use:   "search",
		Short: "Query the weakness or full-text index directly",
	}
	search.PersistentFlags().IntVarP(&k, "k", "k", 3, "number of results")

	weakness := &cobra.Command{
		Use:   "weakness <id>",
		Short: "Search the weakness index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(ctx context.Context, a *app) error {
				results, err := a.store.SearchByWeakness(ctx, args[0], k)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), args[0], results)
				return nil
			})
		},
	}
	text := &cobra.Command{
		Use:   "text <query>",
		Short: "Search the full-text index, optionally filtered by language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return opts.withStore(cmd, func(ctx context.Context, a *app) error {
				results, err := a.store.SearchByText(ctx, query, k, language)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), query, results)
				return nil
			})
		},
	}
	text.Flags().StringVarP(&language, "language", "l", "", "only return recipes declaring this language")
	search.AddCommand(weakness, text)
	return search
}

func printResults(w io.Writer, query string, results []vecstore.Result) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results found for %q.\n", query)
		return
	}
	for i, r := range results {
		meta := r.Document.Metadata
		fmt.Fprintf(w, "%d. [%d] %s distance=%.4f", i+1, r.Document.ID, meta.WeaknessID, r.Distance)
		if len(meta.Languages) > 0 {
			fmt.Fprintf(w, " languages=%s", strings.Join(meta.Languages, ","))
		}
		fmt.Fprintln(w)
	}
}

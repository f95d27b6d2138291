package main

import (
	"context"
	"fmt"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecadmin"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/spf13/cobra"
)

func newBuildCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Load the store snapshot, building it from the corpus when absent",
		Long: `Load the store snapshot, building it from the corpus when absent.

A snapshot that exists but is corrupt, of an unknown format or written by a
different encoder is reported as an error and left untouched; use rebuild to
replace it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(_ context.Context, a *app) error {
				h := a.store.Header()
				fmt.Fprintf(cmd.OutOrStdout(), "store ready: %d documents, encoder %s, build %s\n",
					a.store.Len(), h.Encoder, h.BuildID)
				return nil
			})
		},
	}
}

func newRebuildCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Re-parse and re-encode the corpus and replace the snapshot",
		Long: `Re-parse and re-encode the corpus and replace the snapshot.

The existing snapshot is not loaded, so a corrupt one or one written with a
different encoder model is replaced as well. The new snapshot is moved into
place only once it is complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			store, err := vecadmin.Reindex(cmd.Context(), a.cfg.VecstoreConfig(), a.cfg.CorpusSource(a.logger), a.encoder,
				vecstore.WithLogger(a.logger))
			if err != nil {
				return err
			}
			a.store = store
			fmt.Fprintf(cmd.OutOrStdout(), "rebuilt store: %d documents, build %s\n", store.Len(), store.Header().BuildID)
			return nil
		},
	}
}

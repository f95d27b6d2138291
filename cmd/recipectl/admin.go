package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecadmin"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// snapshotPath returns the --snapshot flag or the configured store snapshot.
func (o *globalOptions) snapshotPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.VecstoreConfig().SnapshotPath(), nil
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var snapshot string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print snapshot header and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.snapshotPath(snapshot)
			if err != nil {
				return err
			}
			info, err := vecadmin.Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			h := info.Header
			fmt.Fprintf(w, "snapshot:    %s (%s)\n", info.Path, humanize.Bytes(uint64(info.SizeBytes)))
			fmt.Fprintf(w, "format:      %s v%d\n", h.Format, h.Version)
			fmt.Fprintf(w, "encoder:     %s (dimension %d)\n", h.Encoder, h.Dimension)
			fmt.Fprintf(w, "documents:   %d (rows %d)\n", h.Documents, info.Rows)
			fmt.Fprintf(w, "corpus:      %s\n", h.CorpusFingerprint)
			fmt.Fprintf(w, "build:       %s, %s (%s)\n", h.BuildID, h.CreatedAt.Format(time.RFC3339), humanize.Time(h.CreatedAt))
			for _, idx := range info.Indexes {
				fmt.Fprintf(w, "index:       %-10s %-6s %s\n", idx.Name, idx.Kind, humanize.Bytes(uint64(idx.Bytes)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "snapshot file (default from store.path)")
	return cmd
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var snapshot string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that both indices agree with a SQL scan of the stored embeddings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.snapshotPath(snapshot)
			if err != nil {
				return err
			}
			report, err := vecadmin.Verify(cmd.Context(), path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "documents: %d, self-queries: %d\n", report.Documents, report.Checked)
			if report.OK() {
				fmt.Fprintln(w, "ok")
				return nil
			}
			fmt.Fprintln(w, strings.Join(report.Problems, "\n"))
			return fmt.Errorf("verification found %d problems", len(report.Problems))
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "snapshot file (default from store.path)")
	return cmd
}

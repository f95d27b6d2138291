package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/retriever"
	"github.com/spf13/cobra"
)

func newRetrieveCmd(opts *globalOptions) *cobra.Command {
	var weakness, language, codeFile string
	var detailed bool
	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Run a two-tier retrieval and print the extracted context",
		Long: `Run a two-tier retrieval and print the extracted context.

Examples:
  # Retrieve guidance for a SQL injection finding in Java code
  recipectl retrieve --weakness CWE-89 --language java --code-file Dao.java

  # Read the code from stdin
  cat handler.go | recipectl retrieve -w CWE-22 -l go --code-file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readCode(cmd.InOrStdin(), codeFile)
			if err != nil {
				return err
			}
			return opts.withStore(cmd, func(ctx context.Context, a *app) error {
				r, err := retriever.New(a.store, a.cfg.RetrieverOptions(), a.logger)
				if err != nil {
					return err
				}
				out, err := r.RetrieveDetailed(ctx, weakness, language, code)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if detailed {
					fmt.Fprintf(w, "tier: %s\n", out.Tier)
					if out.Tier != retriever.TierNone {
						fmt.Fprintf(w, "document: %d (%s) distance=%.4f\n",
							out.Document.ID, out.Document.Metadata.WeaknessID, out.Distance)
					}
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, out.Context)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&weakness, "weakness", "w", "", "weakness id, e.g. CWE-89")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the offending code")
	cmd.Flags().StringVar(&codeFile, "code-file", "", "file with the offending code, - for stdin")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "print the resolving tier and document")
	_ = cmd.MarkFlagRequired("weakness")
	return cmd
}

func readCode(stdin io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read code from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read code file %s: %w", path, err)
		}
		return string(data), nil
	}
}

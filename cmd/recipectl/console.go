package main

import (
	"context"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newConsoleCmd(opts *globalOptions) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive store console: search by weakness id, rebuild, exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, a *app) error {
				p := tea.NewProgram(tui.New(ctx, a.store, k),
					tea.WithAltScreen(),
					tea.WithContext(ctx),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()))
				_, err := p.Run()
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", tui.DefaultTopK, "results per search")
	return cmd
}

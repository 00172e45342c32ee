package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/pkg/dashboard"
)

// exploreCommand creates the explore command for the terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		noCache bool
		flags   dashboardFlags
	)

	cmd := &cobra.Command{
		Use:   "explore <source>",
		Short: "Explore the linked views in the terminal",
		Long: `Explore opens an interactive terminal view of the dashboard.

Moving the cursor over a table row highlights that city in every view: the
detail panel shows it and the top-N panel dims every other bar. Press / to
search, n and p to page, c to clear the highlight and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.config.Dashboard)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runExplore(ctx, args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, source string, opts dashboard.Options, noCache bool) error {
	store, _, err := c.loadDataset(ctx, source, noCache)
	if err != nil {
		return err
	}

	d, err := dashboard.New(store, opts)
	if err != nil {
		return err
	}
	model, detach := NewExploreModel(d)
	defer detach()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

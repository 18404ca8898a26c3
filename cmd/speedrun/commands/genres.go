package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func newGenresCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := speedrun.NewListGenresBuilder().OrderBy(speedrun.GenresByName).Build()
			if err != nil {
				return err
			}
			genres, err := a.api().ListGenresRequest(endpoint, request.WithLimit(limit)).Collect(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), genres, []any{"ID", "Name"}, func(table *tablewriter.Table, genres []speedrun.Genre) error {
				for _, g := range genres {
					if err := table.Append(g.ID, g.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of genres, 0 means all")
	return cmd
}

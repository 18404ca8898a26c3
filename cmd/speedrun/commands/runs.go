package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func newRunsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runs",
		Aliases: []string{"run", "r"},
		Short:   "Browse and moderate runs",
		Long:    "Browse and moderate runs, the verify, reject and delete commands require an API key.",
	}
	cmd.AddCommand(
		newRunsListCommand(a),
		newRunsGetCommand(a),
		newRunsVerifyCommand(a),
		newRunsRejectCommand(a),
		newRunsDeleteCommand(a),
	)
	return cmd
}

func newRunsListCommand(a *app) *cobra.Command {
	var game, category, user, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := speedrun.NewListRunsBuilder().
				Game(game).
				Category(category).
				User(user).
				Status(speedrun.RunStatus(status)).
				OrderBy(speedrun.RunsBySubmitted).
				Direction(speedrun.Descending).
				Build()
			if err != nil {
				return err
			}
			runs, err := a.api().ListRunsRequest(endpoint, request.WithLimit(limit)).Collect(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), runs, runsHeader, fillRunsTable)
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "filter by the game ID")
	cmd.Flags().StringVar(&category, "category", "", "filter by the category ID")
	cmd.Flags().StringVar(&user, "user", "", "filter by the user ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by the status (new, verified, rejected)")
	cmd.Flags().IntVarP(&limit, "limit", "l", defaultListLimit, "maximum number of runs, 0 means all")
	return cmd
}

func newRunsGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get RUN",
		Short: "Get a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewGetRunBuilder().ID(args[0]).Build()
			if err != nil {
				return err
			}
			run, err := a.api().GetRunRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.Run{run}, runsHeader, fillRunsTable)
		},
	}
}

func newRunsVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify RUN",
		Short: "Verify a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewUpdateRunStatusBuilder().ID(args[0]).Verified().Build()
			if err != nil {
				return err
			}
			run, err := a.api().UpdateRunStatusRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.Run{run}, runsHeader, fillRunsTable)
		},
	}
}

func newRunsRejectCommand(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject RUN",
		Short: "Reject a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewUpdateRunStatusBuilder().ID(args[0]).Rejected(reason).Build()
			if err != nil {
				return err
			}
			run, err := a.api().UpdateRunStatusRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.Run{run}, runsHeader, fillRunsTable)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason of the rejection")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newRunsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewDeleteRunBuilder().ID(args[0]).Build()
			if err != nil {
				return err
			}
			run, err := a.api().DeleteRunRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.Run{run}, runsHeader, fillRunsTable)
		},
	}
}

var runsHeader = []any{"ID", "Game", "Category", "Players", "Time", "Status", "Date"}

func fillRunsTable(table *tablewriter.Table, runs []speedrun.Run) error {
	for _, r := range runs {
		row := []any{
			r.ID,
			r.Game,
			r.Category,
			formatPlayers(r.Players),
			formatSeconds(r.Times.PrimarySeconds),
			string(r.Status.Status),
			formatOptional(r.Date),
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return nil
}

package commands

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func newLeaderboardCommand(a *app) *cobra.Command {
	var level, platform, region, timing string
	var top int
	var videoOnly bool
	var variables map[string]string

	cmd := &cobra.Command{
		Use:     "leaderboard GAME CATEGORY",
		Aliases: []string{"lb"},
		Short:   "Show a full-game leaderboard, or an individual-level one with the --level flag",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := speedrun.NewLeaderboardBuilder().
				Game(args[0]).
				Category(args[1]).
				Platform(platform).
				Region(region).
				Timing(speedrun.TimingMethod(timing))
			if top > 0 {
				b.Top(top)
			}
			if videoOnly {
				b.VideoOnly(true)
			}
			for variable, value := range variables {
				b.Variable(variable, value)
			}

			var board speedrun.Leaderboard
			if level != "" {
				endpoint, err := b.Level(level).BuildIndividualLevel()
				if err != nil {
					return err
				}
				if board, err = a.api().IndividualLevelLeaderboardRequest(endpoint).Send(cmd.Context()); err != nil {
					return err
				}
			} else {
				endpoint, err := b.BuildFullGame()
				if err != nil {
					return err
				}
				if board, err = a.api().FullGameLeaderboardRequest(endpoint).Send(cmd.Context()); err != nil {
					return err
				}
			}

			header := []any{"Place", "Players", "Time", "Date", "Run"}
			return render(a, cmd.OutOrStdout(), board, header, func(table *tablewriter.Table, board speedrun.Leaderboard) error {
				for _, r := range board.Runs {
					row := []any{strconv.Itoa(r.Place), formatPlayers(r.Run.Players), formatSeconds(r.Run.Times.PrimarySeconds), formatOptional(r.Run.Date), r.Run.ID}
					if err := table.Append(row...); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "level ID of an individual-level leaderboard")
	cmd.Flags().IntVar(&top, "top", 0, "only the top N places")
	cmd.Flags().StringVar(&platform, "platform", "", "filter by the platform ID")
	cmd.Flags().StringVar(&region, "region", "", "filter by the region ID")
	cmd.Flags().StringVar(&timing, "timing", "", "timing method (realtime, realtime_noloads, ingame)")
	cmd.Flags().StringToStringVar(&variables, "var", nil, "filter by a variable value, for example --var e8m7em86=9qj7z0oq")
	cmd.Flags().BoolVar(&videoOnly, "video-only", false, "only runs with a video")
	return cmd
}

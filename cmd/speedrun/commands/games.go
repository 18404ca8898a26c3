package commands

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

const defaultListLimit = 20

func newGamesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game", "g"},
		Short:   "Browse games",
	}
	cmd.AddCommand(newGamesListCommand(a), newGamesGetCommand(a), newGamesCategoriesCommand(a))
	return cmd
}

func newGamesListCommand(a *app) *cobra.Command {
	var name, platform string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := speedrun.NewListGamesBuilder().Name(name).Platform(platform).Build()
			if err != nil {
				return err
			}
			games, err := a.api().ListGamesRequest(endpoint, request.WithLimit(limit)).Collect(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), games, gamesHeader, fillGamesTable)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by a fuzzy search of the name")
	cmd.Flags().StringVar(&platform, "platform", "", "filter by the platform ID")
	cmd.Flags().IntVarP(&limit, "limit", "l", defaultListLimit, "maximum number of games, 0 means all")
	return cmd
}

func newGamesGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get GAME",
		Short: "Get a game by the ID or the abbreviation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewGetGameBuilder().ID(args[0]).Build()
			if err != nil {
				return err
			}
			game, err := a.api().GetGameRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.Game{game}, gamesHeader, fillGamesTable)
		},
	}
}

func newGamesCategoriesCommand(a *app) *cobra.Command {
	var misc bool

	cmd := &cobra.Command{
		Use:   "categories GAME",
		Short: "List categories of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewListGameCategoriesBuilder().ID(args[0]).Miscellaneous(misc).Build()
			if err != nil {
				return err
			}
			categories, err := a.api().ListGameCategoriesRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			header := []any{"ID", "Name", "Type", "Players", "Misc"}
			return render(a, cmd.OutOrStdout(), categories, header, func(table *tablewriter.Table, categories []speedrun.Category) error {
				for _, c := range categories {
					players := c.Players.Type + " " + strconv.Itoa(c.Players.Value)
					if err := table.Append(c.ID, c.Name, c.Type, players, c.Miscellaneous); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&misc, "misc", true, "include miscellaneous categories")
	return cmd
}

var gamesHeader = []any{"ID", "Abbreviation", "Name", "Released"}

func fillGamesTable(table *tablewriter.Table, games []speedrun.Game) error {
	for _, g := range games {
		if err := table.Append(g.ID, g.Abbreviation, g.Names.International, formatYear(g.Released)); err != nil {
			return err
		}
	}
	return nil
}

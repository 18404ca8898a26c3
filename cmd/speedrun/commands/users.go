package commands

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Browse users",
	}
	cmd.AddCommand(newUsersListCommand(a), newUsersGetCommand(a), newUsersPersonalBestsCommand(a))
	return cmd
}

func newUsersListCommand(a *app) *cobra.Command {
	var lookup, name string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := speedrun.NewListUsersBuilder().Lookup(lookup).Name(name).Build()
			if err != nil {
				return err
			}
			users, err := a.api().ListUsersRequest(endpoint, request.WithLimit(limit)).Collect(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), users, usersHeader, fillUsersTable)
		},
	}

	cmd.Flags().StringVar(&lookup, "lookup", "", "exact case-insensitive match of the name or a linked account")
	cmd.Flags().StringVar(&name, "name", "", "filter by a substring of the name")
	cmd.Flags().IntVarP(&limit, "limit", "l", defaultListLimit, "maximum number of users, 0 means all")
	return cmd
}

func newUsersGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get USER",
		Short: "Get a user by the ID or the name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := speedrun.NewGetUserBuilder().ID(args[0]).Build()
			if err != nil {
				return err
			}
			user, err := a.api().GetUserRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), []speedrun.User{user}, usersHeader, fillUsersTable)
		},
	}
}

func newUsersPersonalBestsCommand(a *app) *cobra.Command {
	var game string
	var top int

	cmd := &cobra.Command{
		Use:     "personal-bests USER",
		Aliases: []string{"pbs"},
		Short:   "List personal bests of a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := speedrun.NewListPersonalBestsBuilder().ID(args[0]).Game(game)
			if top > 0 {
				b.Top(top)
			}
			endpoint, err := b.Build()
			if err != nil {
				return err
			}
			runs, err := a.api().ListPersonalBestsRequest(endpoint).Send(cmd.Context())
			if err != nil {
				return err
			}
			header := []any{"Place", "Game", "Category", "Time", "Run"}
			return render(a, cmd.OutOrStdout(), runs, header, func(table *tablewriter.Table, runs []speedrun.RankedRun) error {
				for _, r := range runs {
					if err := table.Append(strconv.Itoa(r.Place), r.Run.Game, r.Run.Category, formatSeconds(r.Run.Times.PrimarySeconds), r.Run.ID); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "filter by the game ID or abbreviation")
	cmd.Flags().IntVar(&top, "top", 0, "only runs with the place equal or better than N")
	return cmd
}

var usersHeader = []any{"ID", "Name", "Role", "Country"}

func fillUsersTable(table *tablewriter.Table, users []speedrun.User) error {
	for _, u := range users {
		country := "-"
		if u.Location != nil {
			country = u.Location.Country.Code
		}
		if err := table.Append(u.ID, u.Names.International, u.Role, country); err != nil {
			return err
		}
	}
	return nil
}

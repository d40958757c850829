package cli

import (
	"text/tabwriter"

	"galaxymath/internal/app"
	"galaxymath/utils"

	"github.com/spf13/cobra"
)

func newCreateCmd(current func() *app.App, opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pilot account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			user, err := a.Auth.CreatePilot(cmd.Context(), username, password, false)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), user)
			}
			printf(cmd.OutOrStdout(), "created pilot %s (%s)\n", user.Username, user.ID.Hex())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Pilot name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSeedCmd(current func() *app.App, opts *options) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo pilots",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			created, err := utils.PopulateTestUsers(cmd.Context(), a.Accounts, password, a.Clock.Now())
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]int{"created": created})
			}
			printf(cmd.OutOrStdout(), "seeded %d demo pilots\n", created)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "galaxy123", "Password for the demo pilots")
	return cmd
}

func newLeaderboardCmd(current func() *app.App, opts *options) *cobra.Command {
	var game string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top pilots",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := current().Leaderboard.Top(cmd.Context(), game)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(tw, "RANK\tPILOT\tSCORE\tGAME\n")
			for _, e := range entries {
				printf(tw, "%d\t%s\t%d\t%s\n", e.Rank, e.Username, e.Score, e.Game)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&game, "game", "g", "", "Limit to one stage")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trezcool/protimer/client"
)

func groupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Follow your study groups (not available in guest mode)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the groups you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store client.Store) error {
				groups, err := store.Groups(cmd.Context())
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No groups")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tMEMBERS\tPRIVATE\tNAME")
				for _, g := range groups {
					fmt.Fprintf(w, "%d\t%d\t%t\t%s\n", g.ID, g.MemberCount, g.IsPrivate, g.Name)
				}
				return w.Flush()
			})
		},
	}

	leaderboard := &cobra.Command{
		Use:   "leaderboard GROUP_ID",
		Short: "Rank the members of a group by study time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store client.Store) error {
				entries, err := store.Leaderboard(cmd.Context(), id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "RANK\tUSER\tSESSIONS\tTOTAL")
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.Rank, e.Username, e.Sessions, seconds(e.TotalDuration))
				}
				return w.Flush()
			})
		},
	}

	active := &cobra.Command{
		Use:   "active GROUP_ID",
		Short: "Show who in a group is studying right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store client.Store) error {
				sessions, err := store.GroupActiveSessions(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nobody is studying")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USER\tSUBJECT\tELAPSED\tPHASE")
				for _, s := range sessions {
					elapsed := seconds(s.Elapsed)
					p := pomodoroPhase(elapsed, s.FocusDuration, s.BreakDuration)
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Username, s.Subject, elapsed, p.Name)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(list, leaderboard, active)
	return cmd
}

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in to the ProTimer API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.guest() {
				return errGuestLogin
			}
			out := cmd.OutOrStdout()

			var uname string
			if len(args) > 0 {
				uname = args[0]
			} else {
				var err error
				if uname, err = a.prompt(out, "Username or email: "); err != nil {
					return err
				}
			}
			if uname == "" {
				return errors.New("username is required")
			}
			pwd, err := a.promptPassword(out)
			if err != nil {
				return err
			}

			c := a.remote()
			usr, err := c.Login(cmd.Context(), uname, pwd)
			if err != nil {
				return err
			}
			if err = a.saveToken(c.Token()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", usr.Username)
			return nil
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the API session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.guest() {
				return errGuestLogin
			}
			if err := a.remote().Logout(cmd.Context()); err != nil {
				cmd.PrintErrf("server logout failed: %v\n", err)
			}
			if err := a.saveToken(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/storage"
)

// newUserCmd manages API accounts directly in the keystore, so it must not
// run while serve holds the database open.
func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users in the local keystore",
	}

	withUsers := func(fn func(users *dao.UserDAO) error) error {
		store, err := storage.NewStore(a.cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(dao.NewUserDAO(store))
	}

	var password string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(func(users *dao.UserDAO) error {
				return users.Create(args[0], password)
			})
		},
	}
	passwd := &cobra.Command{
		Use:   "passwd NAME",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(func(users *dao.UserDAO) error {
				if err := users.UpdatePassword(args[0], password); err != nil {
					return err
				}
				log.Info().Str("username", args[0]).Msg("Password updated")
				return nil
			})
		},
	}
	for _, c := range []*cobra.Command{add, passwd} {
		c.Flags().StringVar(&password, "password", "", "new password")
		_ = c.MarkFlagRequired("password")
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(func(users *dao.UserDAO) error {
				if err := users.Delete(args[0]); err != nil {
					return err
				}
				log.Info().Str("username", args[0]).Msg("User deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(add, passwd, del)
	return cmd
}

package main

import (
	"fmt"

	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage administrator rights",
}

func setAdminCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			svc := service.NewUserService(repository.NewUserRepository(db))
			if err := svc.SetAdmin(commandContext(cmd), args[0], isAdmin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: is_admin=%v\n", args[0], isAdmin)
			return nil
		},
	}
}

func init() {
	userCmd.AddCommand(
		setAdminCmd("promote", "Grant administrator rights", true),
		setAdminCmd("demote", "Revoke administrator rights", false),
	)
	rootCmd.AddCommand(userCmd)
}

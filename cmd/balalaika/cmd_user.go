package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"balalaika/internal/config"
	applog "balalaika/internal/log"
	"balalaika/internal/repos"
	"balalaika/internal/services"
)

var newUser struct {
	email, name, password string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin accounts",
}

// balalaika user create --email a@b.c --password ...
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(applog.Logger())
		db, err := repos.OpenSchema(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		u, err := services.NewAuthService(repos.NewUserRepo(db)).CreateUser(newUser.email, newUser.name, newUser.password)
		if err != nil {
			return err
		}
		applog.Logger().WithField("email", u.Email).Info("user.create")
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

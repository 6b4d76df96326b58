/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/easyjob/apiserver/config"
	"github.com/easyjob/apiserver/internal/db"
	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// createSuperuserCmd creates a staff account with full access.
var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an administrator account",
	Long: `Create an administrator account. The password is read from
--password or, when omitted, from the EASYJOB_SUPERUSER_PASSWORD
environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("EASYJOB_SUPERUSER_PASSWORD")
		}
		if strings.TrimSpace(email) == "" || password == "" {
			return errors.New("email and password are required")
		}

		cfg := config.LoadConfig()
		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		users := services.NewUserService(store.NewUserRepository(dbConn), nil)
		user, err := users.CreateSuperuser(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createSuperuserCmd)

	createSuperuserCmd.Flags().String("email", "", "administrator email")
	createSuperuserCmd.Flags().String("password", "", "administrator password")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "balalaika",
	Short: "Balalaika's Perfums storefront and admin",
	// Running the binary without a subcommand serves the site.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&newUser.email, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&newUser.name, "name", "", "display name (defaults to the email)")
	userCreateCmd.Flags().StringVar(&newUser.password, "password", "", "password: 8+ chars with upper, lower, digit and symbol")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

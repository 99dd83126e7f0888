package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the authd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "authd - account registration and session tokens",
		Long: `authd registers accounts with bcrypt-hashed passwords, issues signed
session tokens on login and serves a token-gated profile endpoint.

Configuration is read from the environment (JWT_SECRET is required).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

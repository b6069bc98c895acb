package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/inbox/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Inbox — shared-item lending server CLI",
	Long:  "Inbox lets households and offices share items with date-range reservations. Use this CLI to run and manage the server.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations and seeders via their init() funcs.
	_ "github.com/nikhilverma/shopline/database/migrations"
	_ "github.com/nikhilverma/shopline/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopline",
	Short: "Shopline — storefront and admin console backend",
	Long:  "Shopline is an e-commerce backend: product catalogue, carts, checkout with payment gateway integration, and an admin console.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(queueRetryCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikhilverma/shopline/internal/kernel"
	"github.com/nikhilverma/shopline/internal/server"
)

// shopline serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// shopline route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kernel.NewRouter()
		for _, info := range r.Routes() {
			fmt.Printf("%-7s %-55s %s\n", info.Method, info.Path, info.Name)
		}
		return nil
	},
}

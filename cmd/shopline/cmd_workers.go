package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikhilverma/shopline/app/jobs"
	"github.com/nikhilverma/shopline/internal/server"
	"github.com/nikhilverma/shopline/pkg/cache"
	"github.com/nikhilverma/shopline/pkg/queue"
)

var queueWorkersFlag int

// shopline queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers on a dedicated process",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}
		return server.StartWorkersOnly(workers)
	},
}

// shopline queue:retry
var queueRetryCmd = &cobra.Command{
	Use:   "queue:retry",
	Short: "Re-dispatch jobs that exhausted their retries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		// Push into Redis when available so running workers pick the
		// jobs up; the in-memory fallback only helps local runs.
		if err := cache.Connect(); err == nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
		jobs.RegisterAll()
		n, err := queue.RetryFailed()
		if err != nil {
			return err
		}
		fmt.Printf("Requeued %d failed job(s).\n", n)
		return nil
	},
}

// shopline schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the task scheduler on a dedicated process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.StartSchedulerOnly()
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "number of concurrent workers")
}

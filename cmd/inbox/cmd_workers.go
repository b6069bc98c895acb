package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inbox/app/jobs"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/config"
	"github.com/shashiranjanraj/inbox/internal/server"
	"github.com/shashiranjanraj/inbox/pkg/cache"
	"github.com/shashiranjanraj/inbox/pkg/queue"
	"github.com/shashiranjanraj/inbox/pkg/schedule"
)

var queueWorkersFlag int

// inbox queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		jobs.Register()
		queue.UseDB(db)
		if err := cache.Connect(); err == nil && cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// inbox schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reservationService := services.NewReservationService(
			repositories.NewReservationRepository(db),
			repositories.NewProductRepository(db),
			repositories.NewGroupRepository(db),
			config.ReserveAutoApprove(),
		)
		server.RegisterSchedules(reservationService)

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  •", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}

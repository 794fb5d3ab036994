package cmd

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rimborso/src/log"
	"rimborso/src/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start standalone claim processing workers",
	Long: `The worker command runs the processing loop against the shared
PostgreSQL queue, for deployments that scale workers separately from the
HTTP server.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	settingDefaultConfig()
}

func runWorker(cmd *cobra.Command, args []string) error {
	objects, err := newObjectStore()
	if err != nil {
		return err
	}

	store, db, err := newJobStore()
	if err != nil {
		return err
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	p := newPipeline(objects, viper.GetString("minio.bucket"))
	idle, backoff := workerIntervals()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	count := viper.GetInt("worker.count")
	for i := 0; i < count; i++ {
		w := worker.New(store, p,
			worker.WithIdleInterval(idle),
			worker.WithBackoffInterval(backoff),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}
	log.Info("workers started", "count", count)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	stdlog.Println("Shutting down...")
	cancel()
	wg.Wait()
	stdlog.Println("Workers stopped")

	return nil
}

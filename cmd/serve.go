package cmd

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "rimborso/handler/http"
	jobctrl "rimborso/src/infrastructure/job"
	"rimborso/src/log"
	"rimborso/src/worker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim analysis server",
	Long: `The serve command starts the HTTP server that accepts claim
submissions and answers status polls. With worker.embedded enabled it also
runs the processing workers in the same process.`,
	Run: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	objects, err := newObjectStore()
	if err != nil {
		stdlog.Fatalf("Failed to initialize object store: %v", err)
	}

	store, db, err := newJobStore()
	if err != nil {
		stdlog.Fatalf("Failed to initialize job store: %v", err)
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The in-process pub/sub wakes embedded workers on submission so jobs
	// start without waiting out the poll interval.
	var pubSub *gochannel.GoChannel
	var publisher message.Publisher
	if viper.GetBool("worker.embedded") {
		pubSub = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		defer pubSub.Close()
		publisher = pubSub
	}

	jobService, err := jobctrl.NewService(store, objects, viper.GetString("minio.bucket"), publisher)
	if err != nil {
		stdlog.Fatalf("Failed to initialize job service: %v", err)
	}

	if pubSub != nil {
		p := newPipeline(objects, jobService.Bucket())
		idle, backoff := workerIntervals()

		for i := 0; i < viper.GetInt("worker.count"); i++ {
			wake, err := pubSub.Subscribe(ctx, jobctrl.SubmittedTopic)
			if err != nil {
				stdlog.Fatalf("Failed to subscribe worker: %v", err)
			}
			w := worker.New(store, p,
				worker.WithIdleInterval(idle),
				worker.WithBackoffInterval(backoff),
				worker.WithWakeChannel(wake),
			)
			go w.Run(ctx)
		}
		log.Info("embedded workers started", "count", viper.GetInt("worker.count"))
	}

	claimHandler, err := httpHdlr.NewClaimHandler(jobService)
	if err != nil {
		stdlog.Fatalf("Failed to initialize claim handler: %v", err)
	}

	// Setup gin router
	r := gin.Default()

	// Register routes
	r.POST("/claims", claimHandler.Submit)
	r.GET("/claims", claimHandler.List)
	r.GET("/claims/:id", claimHandler.Status)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stdlog.Println("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		stdlog.Printf("Invalid shutdown timeout: %v, using default 5s", err)
		timeout = 5 * time.Second
	}

	// Stop the workers, then drain in-flight HTTP requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		stdlog.Printf("Server forced to shutdown: %v", err)
	}

	stdlog.Println("Server exited")
}

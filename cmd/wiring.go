package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rimborso/src/fsutil"
	jobctrl "rimborso/src/infrastructure/job"
	"rimborso/src/ollama"
	"rimborso/src/pipeline"
	"rimborso/src/storage/minioctrl"
	"rimborso/src/textextract"
)

func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	return db, nil
}

// newObjectStore picks the document blob backend from configuration:
// MinIO for deployments, a plain directory for single-binary setups.
func newObjectStore() (fsutil.ObjectStore, error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case "local":
		return fsutil.NewLocalObjectStore(viper.GetString("storage.local_dir")), nil
	case "minio":
		return minioctrl.NewMinioService(
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetBool("minio.use_ssl"),
		)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// newJobStore picks the queue backend. The memory store only makes sense
// with embedded workers; the db return is nil for it.
func newJobStore() (jobctrl.Store, *gorm.DB, error) {
	switch backend := viper.GetString("queue.backend"); backend {
	case "memory":
		return jobctrl.NewMemoryStore(), nil, nil
	case "postgres":
		db, err := openDatabase()
		if err != nil {
			return nil, nil, err
		}
		store, err := jobctrl.NewPostgresStore(db)
		if err != nil {
			return nil, nil, err
		}
		return store, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", backend)
	}
}

// newPipeline builds the claim processing pipeline, attaching the Ollama
// analyzer when enabled in configuration.
func newPipeline(objects fsutil.ObjectStore, bucket string) *pipeline.Pipeline {
	opts := []pipeline.Option{}

	if viper.GetBool("ollama.enabled") {
		client := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{})
		opts = append(opts, pipeline.WithAnalyzer(client, viper.GetString("ollama.model")))

		if timeout, err := time.ParseDuration(viper.GetString("ollama.timeout")); err == nil {
			opts = append(opts, pipeline.WithTimeout(timeout))
		}
	}

	return pipeline.New(objects, bucket, textextract.NewLocalExtractor(), opts...)
}

func workerIntervals() (idle, backoff time.Duration) {
	idle, err := time.ParseDuration(viper.GetString("worker.idle_interval"))
	if err != nil {
		idle = 0
	}
	backoff, err = time.ParseDuration(viper.GetString("worker.backoff_interval"))
	if err != nil {
		backoff = 0
	}
	return idle, backoff
}

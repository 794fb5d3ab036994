package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Map environment variables to Viper keys for storage and Server
	viper.BindEnv("storage.backend", "STORAGE_BACKEND")
	viper.BindEnv("storage.local_dir", "STORAGE_LOCAL_DIR")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for the job queue and workers
	viper.BindEnv("queue.backend", "QUEUE_BACKEND")
	viper.BindEnv("worker.embedded", "WORKER_EMBEDDED")
	viper.BindEnv("worker.count", "WORKER_COUNT")
	viper.BindEnv("worker.idle_interval", "WORKER_IDLE_INTERVAL")
	viper.BindEnv("worker.backoff_interval", "WORKER_BACKOFF_INTERVAL")

	// Map environment variables to Viper keys for Ollama
	viper.BindEnv("ollama.enabled", "OLLAMA_ENABLED")
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.model", "OLLAMA_MODEL")
	viper.BindEnv("ollama.timeout", "OLLAMA_TIMEOUT")

	// Set default values for PostgreSQL
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "rimborso")

	// Set default values for storage and Server
	viper.SetDefault("storage.backend", "minio")
	viper.SetDefault("storage.local_dir", "./data")
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("minio.bucket", "claim-documents")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Set default values for the job queue and workers
	viper.SetDefault("queue.backend", "postgres")
	viper.SetDefault("worker.embedded", true)
	viper.SetDefault("worker.count", 2)
	viper.SetDefault("worker.idle_interval", "1s")
	viper.SetDefault("worker.backoff_interval", "5s")

	// Set default values for Ollama
	viper.SetDefault("ollama.enabled", false)
	viper.SetDefault("ollama.url", "http://ollama:11434/api")
	viper.SetDefault("ollama.model", "llama3")
	viper.SetDefault("ollama.timeout", "60s")
}

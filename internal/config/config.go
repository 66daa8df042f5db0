// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for all major components including
// server settings, database connections, the Groq oracle, and reconciliation policy.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration (e.g., HTTP server, databases,
// oracle access) and is validated during application startup.
type Config struct {
	Application    ApplicationConfig
	Logging        LoggingConfig
	Server         ServerConfig
	Postgres       PostgresConfig
	MongoDB        MongoDBConfig
	Kafka          KafkaConfig
	Oracle         OracleConfig
	Reconciliation ReconciliationConfig
	WorkerPool     WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration for the reconciliation event stream
type KafkaConfig struct {
	Brokers             string
	ReconciliationTopic string
	NumPartitions       int // Number of partitions for topics
	ReplicationFactor   int // Replication factor for topics
	MaxWait             time.Duration
}

// OracleConfig contains connection settings for the Groq chat-completion API.
// Groq exposes an OpenAI-compatible endpoint, so BaseURL points at its /openai/v1 root.
type OracleConfig struct {
	APIKey        string
	BaseURL       string
	ExtractModel  string // Model used for invoice field extraction
	AnalysisModel string // Model used for matching and optimisation analysis
	Timeout       time.Duration
}

// ReconciliationConfig contains the decision-engine policy knobs
type ReconciliationConfig struct {
	AutoConfirmThreshold float64       // Confidence at or above which a match commits without review
	OracleTimeout        time.Duration // Per-call deadline for matching oracle round-trips
}

// WorkerPoolConfig contains worker pool configuration for document extraction
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.ReconciliationTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_RECONCILIATION_TOPIC is required")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_MAX_WAIT must be greater than 0")
	}

	// Validate Oracle config
	if c.Oracle.BaseURL == "" {
		validationErrors = append(validationErrors, "ORACLE_BASE_URL is required")
	}
	if c.Oracle.ExtractModel == "" {
		validationErrors = append(validationErrors, "ORACLE_EXTRACT_MODEL is required")
	}
	if c.Oracle.AnalysisModel == "" {
		validationErrors = append(validationErrors, "ORACLE_ANALYSIS_MODEL is required")
	}
	if c.Oracle.Timeout <= 0 {
		validationErrors = append(validationErrors, "ORACLE_TIMEOUT must be greater than 0")
	}

	// Validate Reconciliation config
	if c.Reconciliation.AutoConfirmThreshold <= 0 || c.Reconciliation.AutoConfirmThreshold > 1 {
		validationErrors = append(validationErrors, "RECONCILIATION_AUTO_CONFIRM_THRESHOLD must be in (0, 1]")
	}
	if c.Reconciliation.OracleTimeout <= 0 {
		validationErrors = append(validationErrors, "RECONCILIATION_ORACLE_TIMEOUT must be greater than 0")
	}

	// Validate Worker Pool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(validationErrors, "; "))
	}

	return nil
}

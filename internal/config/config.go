package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	FCM       FCMConfig
	PubSub    PubSubConfig
	Tracing   TracingConfig
}

type SchedulerConfig struct {
	RetryDelay             time.Duration
	DeliveryTimeout        time.Duration
	MaxConsecutiveFailures int
}

type FCMConfig struct {
	CredentialsFile string
	ProjectID       string
	SendRate        float64
	SendBurst       int
}

// Enabled reports whether push delivery goes to FCM rather than the log client.
func (c *FCMConfig) Enabled() bool {
	return c.CredentialsFile != "" || c.ProjectID != ""
}

type PubSubConfig struct {
	NatsURL         string
	GCloudProjectID string
}

type TracingConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	SamplingRate float64
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	maxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdleConns, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	retryDelay, err := time.ParseDuration(getEnv("REMINDER_RETRY_DELAY", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_RETRY_DELAY: %w", err)
	}

	deliveryTimeout, err := time.ParseDuration(getEnv("REMINDER_DELIVERY_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_DELIVERY_TIMEOUT: %w", err)
	}

	maxFailures, err := strconv.Atoi(getEnv("REMINDER_MAX_CONSECUTIVE_FAILURES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_MAX_CONSECUTIVE_FAILURES: %w", err)
	}

	sendRate, err := strconv.ParseFloat(getEnv("FCM_SEND_RATE", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FCM_SEND_RATE: %w", err)
	}

	sendBurst, err := strconv.Atoi(getEnv("FCM_SEND_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid FCM_SEND_BURST: %w", err)
	}

	samplingRate, err := strconv.ParseFloat(getEnv("OTEL_SAMPLING_RATE", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATE: %w", err)
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN environment variable is required")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         serverPort,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Database: DatabaseConfig{
			DSN:             dsn,
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			RetryDelay:             retryDelay,
			DeliveryTimeout:        deliveryTimeout,
			MaxConsecutiveFailures: maxFailures,
		},
		FCM: FCMConfig{
			CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			SendRate:        sendRate,
			SendBurst:       sendBurst,
		},
		PubSub: PubSubConfig{
			NatsURL:         os.Getenv("NATS_URL"),
			GCloudProjectID: os.Getenv("GCLOUD_PROJECT_ID"),
		},
		Tracing: TracingConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "habit-reminder"),
			Environment:  getEnv("ENV", "dev"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SamplingRate: samplingRate,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

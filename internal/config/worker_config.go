package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
)

type Config struct {
	RabbitMQURL     string
	JobsQueueName   string
	EventsQueueName string

	DatabaseDSN string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RedisAddr string
	RedisTTL  time.Duration

	Sandbox SandboxConfig

	LanguagesFile string

	HTTPPort       string
	RateLimitRPS   float64
	RateLimitBurst int
}

// SandboxConfig holds the resource limits and placement of sandboxes.
type SandboxConfig struct {
	JobsDataVolume  string
	WorkspaceRoot   string
	MemoryBytes     int64
	NanoCPUs        int64
	PidsLimit       int64
	User            string
	NetworkDisabled bool
	ExecTimeout     time.Duration
	MaxOutputBytes  int
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	cfg := &Config{}
	cfg.RabbitMQURL, cfg.JobsQueueName, cfg.EventsQueueName = rabbitmqConfig(logger)
	cfg.DatabaseDSN = databaseConfig(logger)
	cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket = storageConfig(logger)
	cfg.RedisAddr, cfg.RedisTTL = cacheConfig(logger)
	cfg.Sandbox = sandboxConfig(logger)
	cfg.LanguagesFile = os.Getenv("LANGUAGES_FILE")
	cfg.HTTPPort, cfg.RateLimitRPS, cfg.RateLimitBurst = httpConfig(logger)

	return cfg
}

func stringOrDefault(logger *zap.SugaredLogger, key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set, using default value %s", key, def)
		return def
	}
	return value
}

func intOrDefault(logger *zap.SugaredLogger, key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		logger.Warnf("%s is not set, using default value %d", key, def)
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}

func floatOrDefault(logger *zap.SugaredLogger, key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		logger.Warnf("%s is not set, using default value %g", key, def)
		return def
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}

func boolOrDefault(logger *zap.SugaredLogger, key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}

func rabbitmqConfig(logger *zap.SugaredLogger) (string, string, string) {
	host := stringOrDefault(logger, "RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	portStr := stringOrDefault(logger, "RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	user := stringOrDefault(logger, "RABBITMQ_USER", constants.DefaultRabbitmqUser)
	password := stringOrDefault(logger, "RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)

	jobsQueue := stringOrDefault(logger, "JOBS_QUEUE_NAME", constants.DefaultJobsQueueName)
	eventsQueue := stringOrDefault(logger, "EVENTS_QUEUE_NAME", constants.DefaultEventsQueueName)

	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	return url, jobsQueue, eventsQueue
}

func databaseConfig(logger *zap.SugaredLogger) string {
	host := stringOrDefault(logger, "DB_HOST", constants.DefaultDBHost)
	port := stringOrDefault(logger, "DB_PORT", constants.DefaultDBPort)
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		logger.Fatalf("failed to parse DB_PORT with error: %v", err)
	}
	user := stringOrDefault(logger, "DB_USER", constants.DefaultDBUser)
	password := stringOrDefault(logger, "DB_PASSWORD", constants.DefaultDBPassword)
	name := stringOrDefault(logger, "DB_NAME", constants.DefaultDBName)
	sslMode := stringOrDefault(logger, "DB_SSLMODE", constants.DefaultDBSslMode)

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode)
}

func storageConfig(logger *zap.SugaredLogger) (string, string, string, bool, string) {
	endpoint := stringOrDefault(logger, "MINIO_ENDPOINT", constants.DefaultMinioEndpoint)
	accessKey := stringOrDefault(logger, "MINIO_ACCESS_KEY", constants.DefaultMinioAccessKey)
	secretKey := stringOrDefault(logger, "MINIO_SECRET_KEY", constants.DefaultMinioSecretKey)
	useSSL := boolOrDefault(logger, "MINIO_USE_SSL", false)
	bucket := stringOrDefault(logger, "MINIO_BUCKET", constants.DefaultMinioBucket)
	return endpoint, accessKey, secretKey, useSSL, bucket
}

// cacheConfig returns an empty address when REDIS_ADDR is unset, which disables caching.
func cacheConfig(logger *zap.SugaredLogger) (string, time.Duration) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Warn("REDIS_ADDR is not set, test case cache disabled")
	}
	ttl := intOrDefault(logger, "REDIS_TTL_MINUTES", constants.DefaultRedisTTLMinutes)
	return addr, time.Duration(ttl) * time.Minute
}

func sandboxConfig(logger *zap.SugaredLogger) SandboxConfig {
	memoryMB := intOrDefault(logger, "SANDBOX_MEMORY_MB", constants.DefaultSandboxMemoryMB)
	if memoryMB <= 0 {
		logger.Fatalf("SANDBOX_MEMORY_MB must be positive, got %d", memoryMB)
	}
	cpus := floatOrDefault(logger, "SANDBOX_CPUS", constants.DefaultSandboxCPUs)
	if cpus <= 0 {
		logger.Fatalf("SANDBOX_CPUS must be positive, got %g", cpus)
	}
	timeoutSec := intOrDefault(logger, "EXEC_TIMEOUT_SEC", constants.DefaultExecTimeoutSec)
	if timeoutSec <= 0 {
		logger.Fatalf("EXEC_TIMEOUT_SEC must be positive, got %d", timeoutSec)
	}

	return SandboxConfig{
		JobsDataVolume:  os.Getenv("JOBS_DATA_VOLUME"),
		WorkspaceRoot:   stringOrDefault(logger, "WORKSPACE_ROOT", constants.DefaultWorkspaceRoot),
		MemoryBytes:     int64(memoryMB) * 1024 * 1024,
		NanoCPUs:        int64(cpus * 1e9),
		PidsLimit:       int64(intOrDefault(logger, "SANDBOX_PIDS_LIMIT", constants.DefaultSandboxPidsLimit)),
		User:            stringOrDefault(logger, "SANDBOX_USER", constants.DefaultSandboxUser),
		NetworkDisabled: boolOrDefault(logger, "SANDBOX_NETWORK_DISABLED", true),
		ExecTimeout:     time.Duration(timeoutSec) * time.Second,
		MaxOutputBytes:  intOrDefault(logger, "MAX_OUTPUT_BYTES", constants.DefaultMaxOutputBytes),
	}
}

func httpConfig(logger *zap.SugaredLogger) (string, float64, int) {
	port := stringOrDefault(logger, "HTTP_PORT", constants.DefaultHTTPPort)
	rps := floatOrDefault(logger, "RATE_LIMIT_RPS", constants.DefaultRateLimitRPS)
	burst := intOrDefault(logger, "RATE_LIMIT_BURST", constants.DefaultRateLimitBurst)
	return port, rps, burst
}

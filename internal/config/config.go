package config

import (
	"os"
	"strconv"
)

type Config struct {
	// HTTP
	HTTPPort string

	// Simulation
	VehicleReg     string
	TickIntervalMS int
	DataPath       string

	// Logging
	LogFormat string

	// Redis (optional; empty addr disables the Redis calendar and mirror)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Postgres append log (optional; empty host disables archiving)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int32

	// Alerting (empty URL selects the voice stub)
	AlertWebhookURL string

	// Recorder channels
	StateChannelSize      int
	ArchiveChannelSize    int
	EscalationChannelSize int

	// Archive writer tuning
	ArchiveBatchSize       int
	ArchiveFlushIntervalMS int
}

func Load() *Config {
	return &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8000"),
		VehicleReg:             getEnv("VEHICLE_REG", "TN-22-BJ-2730"),
		TickIntervalMS:         getEnvInt("TICK_INTERVAL_MS", 1000),
		DataPath:               getEnv("DATA_PATH", ""),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		DBHost:                 getEnv("DB_HOST", ""),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "autosync_user"),
		DBPassword:             getEnv("DB_PASSWORD", "autosync_password"),
		DBName:                 getEnv("DB_NAME", "autosync"),
		DBMaxConns:             int32(getEnvInt("DB_MAX_CONNS", 5)),
		AlertWebhookURL:        getEnv("ALERT_WEBHOOK_URL", ""),
		StateChannelSize:       getEnvInt("STATE_CHANNEL_SIZE", 1000),
		ArchiveChannelSize:     getEnvInt("ARCHIVE_CHANNEL_SIZE", 5000),
		EscalationChannelSize:  getEnvInt("ESCALATION_CHANNEL_SIZE", 100),
		ArchiveBatchSize:       getEnvInt("ARCHIVE_BATCH_SIZE", 200),
		ArchiveFlushIntervalMS: getEnvInt("ARCHIVE_FLUSH_INTERVAL_MS", 500),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

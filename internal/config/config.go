package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AuditSinkOutbox = "outbox"
	AuditSinkDirect = "direct"
	AuditSinkLog    = "log"
)

type Config struct {
	// Env is "production" or anything else for development logging.
	Env string

	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// ShutdownTimeout bounds how long in-flight requests may drain.
	ShutdownTimeout time.Duration

	DB    DBConfig
	Redis RedisConfig
	Kafka KafkaConfig

	JWTSecret          string
	CORSAllowedOrigins []string

	Leave    LeaveConfig
	Approval RateConfig
	PerIP    RateConfig

	// AuditSink selects where audit entries go: "outbox" (Kafka relay),
	// "direct" (audit_logs table) or "log" (zap only).
	AuditSink string
}

type DBConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	MaxRetries int
}

type KafkaConfig struct {
	Broker          string
	AuditTopic      string
	ConsumerGroupID string
	PollInterval    time.Duration
}

// LeaveConfig tunes the balance mutator. CommitMaxRetries applies to deduct
// and its compensation; ReservationMaxAttempts to reserve and release.
type LeaveConfig struct {
	CommitMaxRetries       int
	CommitRetryDelay       time.Duration
	ReservationMaxAttempts int
	ReleaseOnReject        bool
	BalanceCacheTTL        time.Duration
}

// RateConfig is a token bucket: Approval spaces approve/reject calls per
// user, PerIP guards the whole API per client address.
type RateConfig struct {
	RatePerSecond float64
	Burst         int
}

func Load() *Config {
	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "3000"),
		ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),

		ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: DBConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "hrpay"),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: getInt("DB_MAX_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			MaxRetries: getInt("REDIS_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Broker:          os.Getenv("KAFKA_BROKER"),
			AuditTopic:      getEnv("KAFKA_AUDIT_TOPIC", "hr.audit.v1"),
			ConsumerGroupID: getEnv("KAFKA_CONSUMER_GROUP", "go-hrpay-audit"),
			PollInterval:    getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		},
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		Leave: LeaveConfig{
			CommitMaxRetries:       getInt("LEAVE_BALANCE_MAX_RETRIES", 3),
			CommitRetryDelay:       time.Duration(getInt("LEAVE_BALANCE_RETRY_DELAY_MS", 100)) * time.Millisecond,
			ReservationMaxAttempts: getInt("LEAVE_RESERVATION_MAX_ATTEMPTS", 1),
			ReleaseOnReject:        getBool("LEAVE_RELEASE_ON_REJECT", false),
			BalanceCacheTTL:        getDuration("LEAVE_BALANCE_CACHE_TTL", 5*time.Minute),
		},
		Approval: RateConfig{
			RatePerSecond: getFloat("APPROVAL_RATE_PER_SEC", 1),
			Burst:         getInt("APPROVAL_BURST", 3),
		},
		PerIP: RateConfig{
			RatePerSecond: getFloat("API_RATE_PER_SEC", 20),
			Burst:         getInt("API_BURST", 40),
		},
		AuditSink: getEnv("AUDIT_SINK", AuditSinkOutbox),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getList splits a comma separated value, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getDuration accepts Go duration strings ("250ms", "5s").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

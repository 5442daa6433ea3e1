package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDriver    string // sqlite | postgres | mysql
	DBDSN       string
	LogFile     string
	LogLevel    string
	LogEncoding string // json | console

	// FullJournal makes sells, reversals and stock decreases write movements too.
	FullJournal   bool
	DefaultLocale string
	SeedDemo      bool

	Lock  LockConfig
	Kafka KafkaConfig
}

type LockConfig struct {
	Backend       string // local | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether a sale-event listener should be started.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

func Load() Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:         getEnv("DB_DSN", "smartcommerce.db"), // sqlite file in project root
		LogFile:       getEnv("LOG_FILE", "./smartcommerce.log"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogEncoding:   getEnv("LOG_ENCODING", "json"),
		FullJournal:   getEnvBool("LEDGER_FULL_JOURNAL", false),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		SeedDemo:      getEnvBool("SEED_DEMO", false),
		Lock: LockConfig{
			Backend:       strings.ToLower(getEnv("LOCK_BACKEND", "local")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_SALES", "sales.requested"),
			GroupID: getEnv("KAFKA_GROUP_ID", "smartcommerce"),
		},
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s LOG_FILE=%s FULL_JOURNAL=%t LOCK_BACKEND=%s KAFKA=%t",
		cfg.Port, cfg.DBDriver, cfg.LogFile, cfg.FullJournal, cfg.Lock.Backend, cfg.Kafka.Enabled())
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DocumentsDir     string
	DocumentsBaseURL string
	MaxProofSize     int64

	OtpAttempts int64
	OtpWindow   time.Duration

	PolicyFile string
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads envFile into the environment when it exists, then builds the Config
// from the environment. Variables already set win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var problems []error
	intVar := func(key string, def int64) int64 {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}

	config := Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		KafkaBrokers: splitList(envOr("KAFKA_BROKERS", "localhost:9092")),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       int(intVar("REDIS_DB", 0)),

		DocumentsDir:     envOr("DOCUMENTS_DIR", "./data/documents"),
		DocumentsBaseURL: envOr("DOCUMENTS_BASE_URL", "http://localhost:8080/documents"),
		MaxProofSize:     intVar("DOCUMENTS_MAX_SIZE", 5<<20),

		OtpAttempts: intVar("OTP_MAX_ATTEMPTS", 5),
		OtpWindow:   durationVar("OTP_WINDOW", 15*time.Minute),

		PolicyFile: os.Getenv("POLICY_FILE"),
	}
	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return config, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

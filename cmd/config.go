package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"laundry/internal/jobs"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	JWTAccessSecret        string
	CORSOrigin             string
	KafkaHost              string
	KafkaOrderChangedTopic string
	OverdueSweepSchedule   string
	Log                    logger.Config
}

// LoadConfig reads .env when present and then the process environment,
// which takes precedence.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	defaults := logger.DefaultConfig()
	return Config{
		HTTPPort:               env("HTTP_PORT", "8080"),
		DBHost:                 env("DB_HOST", "localhost"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 env("DB_USER", ""),
		DBPassword:             env("DB_PASSWORD", ""),
		DBName:                 env("DB_NAME", ""),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		JWTAccessSecret:        env("JWT_ACCESS_SECRET", ""),
		CORSOrigin:             env("CORS_ORIGIN", "http://localhost:3000"),
		KafkaHost:              env("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "laundry.order-status-changed"),
		OverdueSweepSchedule:   env("OVERDUE_SWEEP_SCHEDULE", jobs.DefaultOverdueSweepSchedule),
		Log: logger.Config{
			Level:  env("LOG_LEVEL", defaults.Level),
			Format: env("LOG_FORMAT", defaults.Format),
			Output: env("LOG_OUTPUT", defaults.Output),
		},
	}
}

// Validate checks the settings every command needs to reach the database.
func (c Config) Validate() error {
	var errList []error
	for name, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_PORT": c.DBPort,
		"DB_USER": c.DBUser,
		"DB_NAME": c.DBName,
	} {
		if value == "" {
			errList = append(errList, errs.NewValueIsRequiredError(name))
		}
	}
	return errors.Join(errList...)
}

// ValidateServe additionally requires what the HTTP server needs.
func (c Config) ValidateServe() error {
	var secretErr error
	if c.JWTAccessSecret == "" {
		secretErr = errs.NewValueIsRequiredError("JWT_ACCESS_SECRET")
	}
	return errors.Join(c.Validate(), secretErr)
}

// DSN renders the libpq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// CORSOrigins splits CORS_ORIGIN on commas.
func (c Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// KafkaBrokers splits KAFKA_HOST on commas. Empty means publishing is disabled.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func env(key, fallback string) string {
	if v, found := os.LookupEnv(key); found && v != "" {
		return v
	}
	return fallback
}

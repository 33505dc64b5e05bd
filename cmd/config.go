package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string `mapstructure:"HTTP_PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	KafkaBrokers     []string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrdersTopic string   `mapstructure:"KAFKA_ORDERS_TOPIC"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	DeliveryFee        string        `mapstructure:"DELIVERY_FEE"`
	ConfirmationWindow time.Duration `mapstructure:"CONFIRMATION_WINDOW"`

	SweepSchedule  string        `mapstructure:"SWEEP_SCHEDULE"`
	SweepBatchSize int           `mapstructure:"SWEEP_BATCH_SIZE"`
	SweepLeaseTTL  time.Duration `mapstructure:"SWEEP_LEASE_TTL"`

	OutboxSchedule  string `mapstructure:"OUTBOX_SCHEDULE"`
	OutboxBatchSize int    `mapstructure:"OUTBOX_BATCH_SIZE"`
}

var defaults = map[string]any{
	"HTTP_PORT":           "8080",
	"DB_HOST":             "localhost",
	"DB_PORT":             "5432",
	"DB_USER":             "postgres",
	"DB_PASSWORD":         "",
	"DB_NAME":             "iskxpress",
	"DB_SSLMODE":          "disable",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"KAFKA_BROKERS":       "localhost:9092",
	"KAFKA_ORDERS_TOPIC":  "iskxpress.orders",
	"JWT_SECRET":          "",
	"DELIVERY_FEE":        "50.00",
	"CONFIRMATION_WINDOW": "5m",
	"SWEEP_SCHEDULE":      "*/15 * * * * *",
	"SWEEP_BATCH_SIZE":    100,
	"SWEEP_LEASE_TTL":     "10s",
	"OUTBOX_SCHEDULE":     "*/2 * * * * *",
	"OUTBOX_BATCH_SIZE":   100,
}

// LoadConfig reads an optional .env file into the environment, then builds the
// configuration from environment variables over the defaults.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.ConfirmationWindow <= 0 {
		errs = append(errs, errors.New("CONFIRMATION_WINDOW must be positive"))
	}
	if c.SweepBatchSize <= 0 || c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("batch sizes must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

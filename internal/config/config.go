package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	API struct {
		Port     string
		BasePath string
	}
	Simulation struct {
		TickInterval time.Duration
		Seed         uint64
	}
	Logging struct {
		Dir   string
		Level string
	}
	Kafka struct {
		Broker string
		Topic  string
	}
	Telegram struct {
		BotToken  string
		ChatIDs   []int64
		RateLimit int
	}
	Alerts struct {
		MinScore   int
		Condition  string
		QueueSize  int
		MaxWorkers int
	}
	Stream struct {
		MaxConnections int
	}
}

var conditions = map[string]bool{"EQ": true, "NEQ": true, "GT": true, "GTE": true, "LT": true, "LTE": true}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	var errs []string
	intVar := func(key string, dst *int) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s=%q", key, v))
			return
		}
		*dst = n
	}

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Simulation settings
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("TICK_INTERVAL=%q", v))
		}
		cfg.Simulation.TickInterval = d
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SIM_SEED=%q", v))
		}
		cfg.Simulation.Seed = seed
	}

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Kafka
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")

	// Telegram
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	for _, part := range strings.Split(os.Getenv("TELEGRAM_CHAT_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("TELEGRAM_CHAT_IDS entry %q", part))
			continue
		}
		cfg.Telegram.ChatIDs = append(cfg.Telegram.ChatIDs, id)
	}
	intVar("TELEGRAM_RATE_LIMIT", &cfg.Telegram.RateLimit)

	// Alert worker settings
	intVar("ALERT_MIN_SCORE", &cfg.Alerts.MinScore)
	cfg.Alerts.Condition = strings.ToUpper(os.Getenv("ALERT_CONDITION"))
	intVar("ALERT_QUEUE_SIZE", &cfg.Alerts.QueueSize)
	intVar("ALERT_MAX_WORKERS", &cfg.Alerts.MaxWorkers)

	intVar("STREAM_MAX_CONNECTIONS", &cfg.Stream.MaxConnections)

	// Validate
	if cfg.Alerts.Condition != "" && !conditions[cfg.Alerts.Condition] {
		errs = append(errs, fmt.Sprintf("ALERT_CONDITION=%q", cfg.Alerts.Condition))
	}
	if cfg.Alerts.MinScore > 4 {
		errs = append(errs, fmt.Sprintf("ALERT_MIN_SCORE=%d (max 4)", cfg.Alerts.MinScore))
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configurations: %v", errs)
	}

	// Apply defaults
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 2 * time.Second
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "station_alerts"
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 1
	}
	if cfg.Alerts.MinScore == 0 {
		cfg.Alerts.MinScore = 3
	}
	if cfg.Alerts.Condition == "" {
		cfg.Alerts.Condition = "GTE"
	}
	if cfg.Alerts.QueueSize == 0 {
		cfg.Alerts.QueueSize = 100
	}
	if cfg.Alerts.MaxWorkers == 0 {
		cfg.Alerts.MaxWorkers = 2
	}
	if cfg.Stream.MaxConnections == 0 {
		cfg.Stream.MaxConnections = 100
	}

	return cfg, nil
}

// TelegramEnabled reports whether Telegram alerts have enough settings to run.
func (c Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && len(c.Telegram.ChatIDs) > 0
}

// KafkaEnabled reports whether a broker is configured.
func (c Config) KafkaEnabled() bool {
	return c.Kafka.Broker != ""
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Event sinks the registry's lifecycle stream can be drained into.
const (
	SinkMemory   = "memory"
	SinkRedis    = "redis"
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
)

// Server captures process level configuration.
type Server struct {
	Addr              string
	LogLevel          string
	LogFormat         string
	RuntimeAttributes map[string]any
	DeclarationsFile  string
	AdminJWTKey       string
	AdminSecretHash   string
	AdminTokenTTL     time.Duration
	MatcherCacheSize  int
	Events            Events
	Redis             RedisConfig
	DatabaseDriver    string
	DatabaseURL       string
	Kafka             KafkaConfig
}

// Events configures the lifecycle event pipeline.
type Events struct {
	Sink   string
	Buffer int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds broker settings for the kafka event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:             getEnv("WHITEBOARD_ADDR", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		DeclarationsFile: os.Getenv("DECLARATIONS_FILE"),
		AdminJWTKey:      os.Getenv("ADMIN_JWT_KEY"),
		AdminSecretHash:  os.Getenv("ADMIN_SECRET_HASH"),
		DatabaseDriver:   strings.ToLower(getEnv("DATABASE_DRIVER", "pgx")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Events: Events{
			Sink: strings.ToLower(getEnv("EVENT_SINK", SinkMemory)),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "whiteboard.registry.events"),
		},
	}

	var err error
	if cfg.RuntimeAttributes, err = ParseAttributes(os.Getenv("RUNTIME_ATTRIBUTES")); err != nil {
		return Server{}, err
	}
	if cfg.MatcherCacheSize, err = getInt("MATCHER_CACHE_SIZE", 512); err != nil {
		return Server{}, err
	}
	if cfg.Events.Buffer, err = getInt("EVENT_BUFFER", 1024); err != nil {
		return Server{}, err
	}
	if cfg.AdminTokenTTL, err = getDuration("ADMIN_TOKEN_TTL", 15*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks that the selected event sink has what it needs.
func (s Server) Validate() error {
	switch s.Events.Sink {
	case SinkMemory:
	case SinkRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("EVENT_SINK=redis requires REDIS_URL")
		}
	case SinkPostgres:
		if s.DatabaseURL == "" {
			return fmt.Errorf("EVENT_SINK=postgres requires DATABASE_URL")
		}
	case SinkKafka:
		if len(s.Kafka.Brokers) == 0 {
			return fmt.Errorf("EVENT_SINK=kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown EVENT_SINK %q", s.Events.Sink)
	}
	if s.Events.Buffer <= 0 {
		return fmt.Errorf("EVENT_BUFFER must be positive")
	}
	if s.AdminSecretHash != "" && s.AdminJWTKey == "" {
		return fmt.Errorf("ADMIN_SECRET_HASH requires ADMIN_JWT_KEY")
	}
	return nil
}

// ParseAttributes reads "k=v,k=v" into an attribute set. Integer and boolean
// values are typed so target filters can compare them.
func ParseAttributes(raw string) (map[string]any, error) {
	attrs := make(map[string]any)
	for _, pair := range splitList(raw) {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid runtime attribute %q, want key=value", pair)
		}
		value = strings.TrimSpace(value)
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			attrs[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			attrs[key] = b
		} else {
			attrs[key] = value
		}
	}
	return attrs, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
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

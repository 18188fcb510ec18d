package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	DefaultLanguage string

	// Scoring.
	SymptomExtendedRules bool

	// Report storage.
	StoreBackend   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	PostgresDSN    string

	// Replayed submissions with a known idempotency key are answered from cache.
	IdempotencyCacheSize int

	// Kafka ingestion and publishing.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration

	// MQTT water sensor ingestion.
	MQTTEnabled  bool
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	extended, err := parseBool("SYMPTOM_EXTENDED_RULES", false)
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}
	mqttEnabled, err := parseBool("MQTT_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DefaultLanguage: sharedcfg.EnvOrDefault("DEFAULT_LANGUAGE", "en"),

		SymptomExtendedRules: extended,

		StoreBackend:   strings.ToLower(sharedcfg.EnvOrDefault("STORE_BACKEND", StoreMemory)),
		RedisAddr:      sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		RedisKeyPrefix: sharedcfg.EnvOrDefault("REDIS_KEY_PREFIX", "aquaguard:reports:"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),

		IdempotencyCacheSize: parseCacheSize(),

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "community-reports"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "scored-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "aquaguard-risk"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MQTTEnabled:  mqttEnabled,
		MQTTBroker:   sharedcfg.EnvOrDefault("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTTopic:    sharedcfg.EnvOrDefault("MQTT_TOPIC", "sensors/water/#"),
		MQTTClientID: sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "aquaguard-risk"),
	}

	switch cfg.StoreBackend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("STORE_BACKEND is postgres but POSTGRES_DSN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.MQTTEnabled && cfg.MQTTTopic == "" {
		return nil, errors.New("MQTT_TOPIC is required when MQTT_ENABLED is true")
	}

	return cfg, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return b, nil
}

func parseCacheSize() int {
	if s := os.Getenv("IDEMPOTENCY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

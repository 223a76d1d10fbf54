package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	StationID   string
	StationName string

	// SourceURLs are candidate feed locations, tried strictly in order.
	SourceURLs   []string
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	StaleAfter   time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka observation publishing (optional).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	stationID := os.Getenv("STATION_ID")
	if stationID == "" {
		return nil, errors.New("STATION_ID is required")
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	staleAfter, err := parsePositiveDuration("STALE_AFTER", "1h")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sources := splitList(os.Getenv("SOURCE_URLS"))
	if len(sources) == 0 {
		sources = defaultSourceURLs(stationID)
	}

	kafkaBrokers := splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		StationID:       stationID,
		StationName:     os.Getenv("STATION_NAME"),
		SourceURLs:      sources,
		FetchTimeout:    fetchTimeout,
		CacheTTL:        cacheTTL,
		StaleAfter:      staleAfter,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    kafkaBrokers,
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "buoy-observations"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

// defaultSourceURLs derives the candidate list from the station id: the
// realtime2 bulletin first, then the 5-day bulletin, which serves the same
// columns and keeps working through realtime2 publication hiccups.
func defaultSourceURLs(stationID string) []string {
	id := strings.ToUpper(stationID)
	return []string{
		fmt.Sprintf("https://www.ndbc.noaa.gov/data/realtime2/%s.txt", id),
		fmt.Sprintf("https://www.ndbc.noaa.gov/data/5day2/%s_5day.txt", id),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config collects every runtime setting of the gateway, loaded from the
// environment with defaults that let the binary run bare.
type Config struct {
	Server    ServerConfig
	Security  SecurityConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
	Websocket WebsocketConfig
}

type ServerConfig struct {
	Port string
}

type SecurityConfig struct {
	// JWTSecret is the HS256 secret shared with the OMNIX auth service.
	JWTSecret string
	// JWTPublicKey optionally holds a PEM RSA public key for RS256 tokens.
	JWTPublicKey string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	// Topics maps the OMNIX domains to the broker topics their events
	// arrive on.
	Topics TopicsConfig
}

type TopicsConfig struct {
	Products        string
	Orders          string
	Alerts          string
	System          string
	Recommendations string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

type WebsocketConfig struct {
	// SendBuffer sizes each client's outbound queue; a client that keeps it
	// full is detached.
	SendBuffer int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8081"),
		},
		Security: SecurityConfig{
			JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
			JWTPublicKey: os.Getenv("JWT_PUBLIC_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(firstEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			GroupID: getEnv("KAFKA_GROUP_ID", "omnix-realtime-gateway"),
			Topics: TopicsConfig{
				Products:        getEnv("KAFKA_TOPIC_PRODUCTS", "omnix.products"),
				Orders:          getEnv("KAFKA_TOPIC_ORDERS", "omnix.orders"),
				Alerts:          getEnv("KAFKA_TOPIC_ALERTS", "omnix.alerts"),
				System:          getEnv("KAFKA_TOPIC_SYSTEM", "omnix.system"),
				Recommendations: getEnv("KAFKA_TOPIC_RECOMMENDATIONS", "omnix.recommendations"),
			},
		},
		Logging: LoggingConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			Directory: getEnv("LOG_DIR", "./logs"),
		},
		Websocket: WebsocketConfig{
			SendBuffer: 8,
		},
	}

	if raw := strings.TrimSpace(os.Getenv("WS_SEND_BUFFER")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid WS_SEND_BUFFER %q", raw)
		}
		cfg.Websocket.SendBuffer = n
	}

	if cfg.Security.JWTSecret == "" && strings.TrimSpace(cfg.Security.JWTPublicKey) == "" {
		return nil, fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

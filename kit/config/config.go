package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RabbitURL      string
	Exchange       string
	GatewayBaseURL string
	GatewayAPIKey  string
	GatewayTimeout time.Duration

	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerOpenTimeout      time.Duration
}

// Load reads configuration from a .env file (if present) and the environment.
// DATABASE_URL, RABBITMQ_URL and GATEWAY_BASE_URL may each be empty, in which
// case main wires the in-memory / in-process / fake counterpart.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		Exchange:       getenv("EVENTS_EXCHANGE", "events"),
		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		GatewayAPIKey:  os.Getenv("GATEWAY_API_KEY"),
		GatewayTimeout: getduration("GATEWAY_TIMEOUT", 15*time.Second),

		BreakerFailureThreshold: getint("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerSuccessThreshold: getint("BREAKER_SUCCESS_THRESHOLD", 1),
		BreakerOpenTimeout:      getduration("BREAKER_OPEN_TIMEOUT", 10*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("layer=kit component=config key=%s value=%s err=%v", key, v, err)
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("layer=kit component=config key=%s value=%s err=%v", key, v, err)
		return fallback
	}
	return d
}

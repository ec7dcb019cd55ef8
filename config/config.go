package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Payment gateway configuration
	PaymentProvider     string
	PaystackSecretKey   string
	PaystackBaseURL     string
	PaystackCallbackURL string

	// Circuit breaker configuration
	BreakerFailureMax   uint32
	BreakerResetTimeout time.Duration

	// Payment session configuration
	PaymentSessionTTL time.Duration

	// Ticket configuration
	QRSigningSecret string

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Payment gateway
		PaymentProvider:     getEnv("PAYMENT_PROVIDER", "paystack"),
		PaystackSecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackCallbackURL: getEnv("PAYSTACK_CALLBACK_URL", "http://localhost:8090/payment/callback"),

		// Circuit breaker
		BreakerFailureMax:   uint32(getEnvAsInt("BREAKER_FAILURE_MAX", 3)),
		BreakerResetTimeout: getEnvAsDuration("BREAKER_RESET_TIMEOUT", "30s"),

		// Payment session
		PaymentSessionTTL: getEnvAsDuration("PAYMENT_SESSION_TTL", "15m"),

		// Tickets
		QRSigningSecret: getEnv("QR_SIGNING_SECRET", "dev-qr-secret"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

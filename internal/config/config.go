package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret string

	CORSOrigins string

	LogLevel  string
	LogFormat string

	EmailProvider string
	ResendAPIKey  string
	FromEmail     string
	FromName      string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string

	SMSGatewayURL   string
	SMSGatewayToken string
	SMSSenderID     string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	APNSCertPath     string
	APNSCertPassword string
	APNSTopic        string
	APNSProduction   bool

	AppBaseURL      string
	LocalesPath     string
	DefaultLanguage string

	StatsCacheTTL     time.Duration
	DeliveryTimeout   time.Duration
	SweepBatchSize    int
	BulkChunkSize     int
	DefaultMaxRetries int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		EmailProvider: getEnv("EMAIL_PROVIDER", "resend"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@example.com"),
		FromName:      getEnv("FROM_NAME", "Aide Sociale"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getIntEnv("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),

		SMSGatewayURL:   getEnv("SMS_GATEWAY_URL", ""),
		SMSGatewayToken: getEnv("SMS_GATEWAY_TOKEN", ""),
		SMSSenderID:     getEnv("SMS_SENDER_ID", "AIDESOC"),

		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:noreply@example.com"),

		APNSCertPath:     getEnv("APNS_CERT_PATH", ""),
		APNSCertPassword: getEnv("APNS_CERT_PASSWORD", ""),
		APNSTopic:        getEnv("APNS_TOPIC", ""),
		APNSProduction:   getBoolEnv("APNS_PRODUCTION", false),

		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:5173"),
		LocalesPath:     getEnv("LOCALES_PATH", "locales"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "fr"),

		StatsCacheTTL:     getDurationEnv("STATS_CACHE_TTL", 2*time.Minute),
		DeliveryTimeout:   getDurationEnv("DELIVERY_TIMEOUT", 10*time.Second),
		SweepBatchSize:    getIntEnv("SWEEP_BATCH_SIZE", 100),
		BulkChunkSize:     getIntEnv("BULK_CHUNK_SIZE", 100),
		DefaultMaxRetries: getIntEnv("DEFAULT_MAX_RETRIES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

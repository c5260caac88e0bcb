package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Keys     APIKeys
	Ai       AIConfig
	Storage  StorageConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MediaTopic         string
}

func (a AppConfig) IsDevelopment() bool {
	return a.Environment != "production"
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret    string
	JwtPublicKey string // PEM, RS256 tokens from the identity provider
	AdminUserIds []string
}

type APIKeys struct {
	Replicate string
	OpenAI    string
}

type AIConfig struct {
	ReplicateBaseURL    string
	OpenAIBaseURL       string
	PromptModel         string
	ProviderTimeout     time.Duration
	CatalogTTL          time.Duration
	CatalogMaxPages     int
	DefaultMinConfident int
}

type StorageConfig struct {
	Driver         string // "s3" or "local"
	LocalDir       string
	PublicBaseURL  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

type PaymentConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	MidtransServerKey   string
	MidtransProduction  bool
	SuccessURL          string
	CancelURL           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MediaTopic:         getEnv("MEDIA_GENERATED_TOPIC", "media.generated"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Studio"),
		},
		Auth: AuthConfig{
			JwtSecret:    getEnv("JWT_SECRET", ""),
			JwtPublicKey: getEnv("JWT_PUBLIC_KEY", ""),
			AdminUserIds: getEnvAsList("ADMIN_USER_IDS"),
		},
		Keys: APIKeys{
			Replicate: getEnv("REPLICATE_API_TOKEN", ""),
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			ReplicateBaseURL:    getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			PromptModel:         getEnv("PROMPT_WIZARD_MODEL", "gpt-4o-mini"),
			ProviderTimeout:     getEnvAsDuration("PROVIDER_TIMEOUT", 5*time.Minute),
			CatalogTTL:          getEnvAsDuration("MODEL_CATALOG_TTL", 6*time.Hour),
			CatalogMaxPages:     getEnvAsInt("MODEL_CATALOG_MAX_PAGES", 5),
			DefaultMinConfident: getEnvAsInt("MODEL_MIN_CONFIDENCE", 30),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			LocalDir:       getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL:  getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:3000/uploads"),
			S3Bucket:       getEnv("S3_BUCKET", ""),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3AccessKey:    getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
			S3UsePathStyle: getEnv("S3_USE_PATH_STYLE", "false") == "true",
		},
		Payment: PaymentConfig{
			StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			MidtransServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransProduction:  getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
			SuccessURL:          getEnv("PAYMENT_SUCCESS_URL", "http://localhost:5173/app?payment=success"),
			CancelURL:           getEnv("PAYMENT_CANCEL_URL", "http://localhost:5173/pricing"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

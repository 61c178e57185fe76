package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Gemini   GeminiConfig
	Throttle ThrottleConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Midtrans MidtransConfig
}

type AppConfig struct {
	Port        string
	Environment string
	Version     string
	LogFilePath string
}

type GeminiConfig struct {
	APIKey        string
	PrimaryModel  string
	FallbackModel string
	Timeout       time.Duration // HTTP deadline per model call
}

type ThrottleConfig struct {
	ChatMinInterval  time.Duration
	PriceMinInterval time.Duration
	PriceAIInterval  time.Duration // spacing between price estimates asked of the model
	PriceCacheTTL    time.Duration
	ChatCacheTTL     time.Duration
	ChatCacheSize    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
	FrontendURL  string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment variables")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("PORT", "5000"),
			Environment: getEnv("ENV", "development"),
			Version:     getEnv("APP_VERSION", "dev"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/aurum.log"),
		},
		Gemini: GeminiConfig{
			APIKey:        getEnv("GEMINI_API_KEY", ""),
			PrimaryModel:  getEnv("GEMINI_PRIMARY_MODEL", "gemini-2.5-flash"),
			FallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.0-flash"),
			Timeout:       getEnvAsDuration("MODEL_TIMEOUT", 15*time.Second),
		},
		Throttle: ThrottleConfig{
			ChatMinInterval:  getEnvAsDuration("CHAT_MIN_INTERVAL", 3*time.Second),
			PriceMinInterval: getEnvAsDuration("PRICE_MIN_INTERVAL", 3*time.Second),
			PriceAIInterval:  getEnvAsDuration("PRICE_AI_INTERVAL", 10*time.Minute),
			PriceCacheTTL:    getEnvAsDuration("PRICE_CACHE_TTL", 3*time.Minute),
			ChatCacheTTL:     getEnvAsDuration("CHAT_CACHE_TTL", 20*time.Minute),
			ChatCacheSize:    getEnvAsInt("CHAT_CACHE_SIZE", 100),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Midtrans: MidtransConfig{
			ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			IsProduction: getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
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
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

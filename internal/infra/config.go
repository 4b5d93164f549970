package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	StoragePath    string
	StorageBaseURL string

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	GeminiBaseURL    string

	ShopifyShopDomain    string
	ShopifyAdminAPIToken string
	ShopifyAPIVersion    string

	PrintifyAPIToken string
	PrintifyShopID   string

	EtsyAPIKey      string
	EtsyShopID      string
	EtsyAccessToken string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Platform credentials are deliberately optional: their
// absence is surfaced as a not-configured status rather than a startup error.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		StoragePath:    getEnv("STORAGE_PATH", "./data/assets"),
		StorageBaseURL: os.Getenv("STORAGE_BASE_URL"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		ShopifyShopDomain:    os.Getenv("SHOPIFY_SHOP_DOMAIN"),
		ShopifyAdminAPIToken: os.Getenv("SHOPIFY_ADMIN_API_TOKEN"),
		ShopifyAPIVersion:    getEnv("SHOPIFY_API_VERSION", "2024-01"),

		PrintifyAPIToken: os.Getenv("PRINTIFY_API_TOKEN"),
		PrintifyShopID:   os.Getenv("PRINTIFY_SHOP_ID"),

		EtsyAPIKey:      os.Getenv("ETSY_API_KEY"),
		EtsyShopID:      os.Getenv("ETSY_SHOP_ID"),
		EtsyAccessToken: os.Getenv("ETSY_ACCESS_TOKEN"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   splitCSV(os.Getenv("ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = fmt.Sprintf("http://localhost:%s/static", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

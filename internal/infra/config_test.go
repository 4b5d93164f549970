package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadConfigDefaultStorageBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:8080/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRequiresGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadConfigPlatformCredentialsOptional(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "")
	t.Setenv("PRINTIFY_API_TOKEN", "")
	t.Setenv("ETSY_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ShopifyShopDomain != "" || cfg.PrintifyAPIToken != "" || cfg.EtsyAPIKey != "" {
		t.Fatal("expected empty platform credentials to load cleanly")
	}
	if cfg.ShopifyAPIVersion != "2024-01" {
		t.Fatalf("ShopifyAPIVersion default mismatch: %q", cfg.ShopifyAPIVersion)
	}
}

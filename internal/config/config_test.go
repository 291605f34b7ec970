package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.DBPath != "store.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Stripe.Currency != "eur" {
		t.Errorf("Currency = %q", cfg.Stripe.Currency)
	}
	if cfg.AdminSecret != "" {
		t.Errorf("AdminSecret = %q", cfg.AdminSecret)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Errorf("rate limits = (%v, %d)", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Errorf("timeouts = %+v", cfg)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL enabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BASE_URL", "https://shop.example.com///")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("ADMIN_SECRET", "s3cret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_1")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("GIN_MODE", "weird")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Port = %q", cfg.Port)
	}
	// Trailing slashes stripped so path joining is predictable.
	if cfg.BaseURL != "https://shop.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Stripe.Currency != "usd" {
		t.Errorf("Currency not lowercased: %q", cfg.Stripe.Currency)
	}
	if cfg.Stripe.SecretKey != "sk_test_1" || cfg.AdminSecret != "s3cret" {
		t.Errorf("secrets not loaded: %+v", cfg.Stripe)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want normalized warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want fallback release", cfg.GinMode)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORS origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateRPS != 2.5 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"relative base url", "BASE_URL", "not-a-url", "BASE_URL"},
		{"bad currency", "CURRENCY", "eurobux", "CURRENCY"},
		{"negative rps", "RATE_RPS", "-1", "RATE_RPS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"bad sampler", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad()
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"http://x/":            "http://x",
		"http://x///":          "http://x",
		"  http://x ":          "http://x",
		"http://x":             "http://x",
		"https://x.example/ap": "https://x.example/ap",
	}
	for in, want := range cases {
		if got := normalizeBaseURL(in); got != want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

package config

import (
	"os"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "HISTORY_DB_PATH",
		"GEMINI_API_KEY", "GEMINI_TEXT_MODEL", "GEMINI_IMAGE_MODEL",
		"GENERATE_RATE_PER_MIN", "FRONTEND_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.HistoryDBPath != "./data/history.db" {
		t.Errorf("unexpected default db path: %q", cfg.HistoryDBPath)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("fallback key should default to empty, got %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiTextModel != "gemini-2.5-flash" {
		t.Errorf("unexpected default text model: %q", cfg.GeminiTextModel)
	}
	if cfg.GeminiImageModel != "gemini-2.5-flash-image" {
		t.Errorf("unexpected default image model: %q", cfg.GeminiImageModel)
	}
	if cfg.GenerateRatePerMin != 30 {
		t.Errorf("expected default rate 30, got %d", cfg.GenerateRatePerMin)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("unexpected default frontend url: %q", cfg.FrontendURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HISTORY_DB_PATH", "/var/lib/slideforge/history.db")
	t.Setenv("GEMINI_TEXT_MODEL", "gemini-2.5-pro")
	t.Setenv("GENERATE_RATE_PER_MIN", "5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.HistoryDBPath != "/var/lib/slideforge/history.db" {
		t.Errorf("expected db path override, got %q", cfg.HistoryDBPath)
	}
	if cfg.GeminiTextModel != "gemini-2.5-pro" {
		t.Errorf("expected text model override, got %q", cfg.GeminiTextModel)
	}
	if cfg.GenerateRatePerMin != 5 {
		t.Errorf("expected rate override, got %d", cfg.GenerateRatePerMin)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

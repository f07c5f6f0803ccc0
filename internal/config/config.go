package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// History store
	HistoryDBPath string

	// Gemini AI
	GeminiAPIKey     string // fallback when no per-request key is supplied
	GeminiTextModel  string
	GeminiImageModel string

	// Rate limiting
	GenerateRatePerMin int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		HistoryDBPath:      getEnvOrDefault("HISTORY_DB_PATH", "./data/history.db"),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiTextModel:    getEnvOrDefault("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:   getEnvOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GenerateRatePerMin: getEnvAsIntOrDefault("GENERATE_RATE_PER_MIN", 30),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

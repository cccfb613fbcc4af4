package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DBPath      string
	ImageDir    string
	GeminiKey   string
	GeminiModel string
	LogLevel    string
	LogFile     string
	LogFormat   string
}

// Load reads configuration from a .env file (if present) and the process
// environment. It does not validate the API key; call RequireKey for that.
func Load() *Config {
	// A missing .env file is not an error, matching the dotenv convention.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DBPath:      getEnv("DB_PATH", "gemini-vision.db"),
		ImageDir:    getEnv("IMAGE_DIR", "images"),
		GeminiKey:   getEnv("GOOGLE_API_KEY", ""),
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}
}

// RequireKey returns an error when no API key is configured. Both front ends
// treat this as fatal at startup.
func (c *Config) RequireKey() error {
	if c.GeminiKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required (set it in the environment or a .env file)")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

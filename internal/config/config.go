package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string
	MoviesDBPath       string
	RatingsDBPath      string
	OMDbBaseURL        string
	OMDbAPIKey         string
	OMDbTimeoutSecs    int
	ReadTimeoutSecs    int
	WriteTimeoutSecs   int
	IdleTimeoutSecs    int
	DBMaxOpenConns     int
	DBMaxIdleSecs      int
	DBConnTimeoutSecs  int
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

// Load reads an optional .env file, then configuration from environment
// variables, applying defaults and validation. Variables already set in the
// environment take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		MoviesDBPath:       getEnv("MOVIES_DB_PATH", "db/movies.db"),
		RatingsDBPath:      getEnv("RATINGS_DB_PATH", "db/ratings.db"),
		OMDbBaseURL:        os.Getenv("OMDB_BASE_URL"),
		OMDbAPIKey:         os.Getenv("OMDB_API_KEY"),
		OMDbTimeoutSecs:    getEnvInt("OMDB_TIMEOUT_SECS", 0),
		ReadTimeoutSecs:    getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:   getEnvInt("SERVER_WRITE_TIMEOUT", 0),
		IdleTimeoutSecs:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleSecs:      getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBConnTimeoutSecs:  getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	if cfg.OMDbBaseURL == "" {
		return Config{}, fmt.Errorf("OMDB_BASE_URL is required")
	}
	if cfg.OMDbAPIKey == "" {
		return Config{}, fmt.Errorf("OMDB_API_KEY is required")
	}
	if cfg.OMDbTimeoutSecs < 0 {
		return Config{}, fmt.Errorf("OMDB_TIMEOUT_SECS must be non-negative")
	}
	if cfg.MoviesDBPath == cfg.RatingsDBPath {
		return Config{}, fmt.Errorf("MOVIES_DB_PATH and RATINGS_DB_PATH must differ")
	}
	if cfg.DBMaxOpenConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if cfg.DBConnTimeoutSecs < 0 {
		return Config{}, fmt.Errorf("DB_CONN_TIMEOUT_SECS must be non-negative")
	}
	if cfg.WriteTimeoutSecs < 0 {
		return Config{}, fmt.Errorf("SERVER_WRITE_TIMEOUT must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

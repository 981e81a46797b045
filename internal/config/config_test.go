package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore Chdir(%s): %v", prev, err)
		}
	})
}

func setRequiredEnvs(t *testing.T) {
	t.Helper()
	// Run from an empty directory so a developer .env never leaks into tests.
	chdir(t, t.TempDir())
	t.Setenv("OMDB_BASE_URL", "http://www.omdbapi.com")
	t.Setenv("OMDB_API_KEY", "apikey")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnvs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.MoviesDBPath != "db/movies.db" || cfg.RatingsDBPath != "db/ratings.db" {
		t.Fatalf("db paths = %s, %s", cfg.MoviesDBPath, cfg.RatingsDBPath)
	}
	if cfg.OMDbTimeoutSecs != 0 {
		t.Fatalf("OMDbTimeoutSecs = %d, want 0 (transport default)", cfg.OMDbTimeoutSecs)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("OMDB_TIMEOUT_SECS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.ReadTimeoutSecs != 30 || cfg.DBMaxOpenConns != 40 || cfg.OMDbTimeoutSecs != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OMDB_BASE_URL", "")
	t.Setenv("OMDB_API_KEY", "")
	os.Unsetenv("OMDB_BASE_URL")
	os.Unsetenv("OMDB_API_KEY")
	env := "OMDB_BASE_URL=http://localhost:9099\nOMDB_API_KEY=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("OMDB_BASE_URL")
		os.Unsetenv("OMDB_API_KEY")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.OMDbBaseURL != "http://localhost:9099" || cfg.OMDbAPIKey != "from-file" {
		t.Fatalf("dotenv values not loaded: %+v", cfg)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		wantErr string
	}{
		{
			name: "missing base url",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("OMDB_BASE_URL", "")
			},
			wantErr: "OMDB_BASE_URL",
		},
		{
			name: "missing api key",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("OMDB_API_KEY", "")
			},
			wantErr: "OMDB_API_KEY",
		},
		{
			name: "negative timeout",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("OMDB_TIMEOUT_SECS", "-1")
			},
			wantErr: "OMDB_TIMEOUT_SECS",
		},
		{
			name: "same db paths",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("MOVIES_DB_PATH", "db/one.db")
				t.Setenv("RATINGS_DB_PATH", "db/one.db")
			},
			wantErr: "RATINGS_DB_PATH",
		},
		{
			name: "zero connections",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("DB_MAX_OPEN_CONNS", "0")
			},
			wantErr: "DB_MAX_OPEN_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

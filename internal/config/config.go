package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	ListenAddr     string
	DatabaseURL    string
	RefreshWorkers int

	// SnapshotReuseTTL bounds how old a cached snapshot may be before a
	// passive refresh re-derives it. Zero disables the age check and
	// reuses any well-formed cached snapshot.
	SnapshotReuseTTL time.Duration

	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAISearchModel string
	OpenAITimeout     time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		Env:               getenv("APP_ENV", "development"),
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RefreshWorkers:    getenvInt("REFRESH_WORKERS", 0),
		SnapshotReuseTTL:  getenvDuration("SNAPSHOT_REUSE_TTL", 0),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		OpenAISearchModel: os.Getenv("OPENAI_SEARCH_MODEL"),
		OpenAITimeout:     getenvDuration("OPENAI_TIMEOUT", 60*time.Second),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

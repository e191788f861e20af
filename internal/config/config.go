package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string
	DBPath     string
	Secret     string
	UploadDir  string
	CORSOrigin string
	TokenTTL   time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. The signing secret has no default.
func Load() (Config, error) {
	_ = godotenv.Load()

	addr := envString("STANBLOG_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":4000"
		}
	}
	secret := os.Getenv("STANBLOG_SECRET")
	if secret == "" {
		return Config{}, errors.New("STANBLOG_SECRET is required")
	}
	cfg := Config{
		Addr:       addr,
		DBPath:     envString("STANBLOG_DB", "stanblog.db"),
		Secret:     secret,
		UploadDir:  envString("STANBLOG_UPLOAD_DIR", "uploads"),
		CORSOrigin: envString("STANBLOG_CORS_ORIGIN", ""),
		// 0 means tokens never expire.
		TokenTTL: envDuration("STANBLOG_TOKEN_TTL", 0),
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

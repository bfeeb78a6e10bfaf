package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries all runtime settings, read from environment variables
// (optionally via a .env file) with sensible defaults for local use.
type Config struct {
	Port           string
	GinMode        string
	JWTSecret      string
	StorageBackend string // memory | sqlite | redis
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// Load reads the configuration. A missing .env file is fine; explicit
// environment variables always win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("JWT_SECRET", "souq_delivery_super_secret_2024")
	v.SetDefault("STORAGE_BACKEND", "sqlite")
	v.SetDefault("SQLITE_PATH", "souq_delivery.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	return Config{
		Port:           v.GetString("PORT"),
		GinMode:        v.GetString("GIN_MODE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		StorageBackend: v.GetString("STORAGE_BACKEND"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
	}
}

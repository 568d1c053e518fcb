package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the application.
type Config struct {
	Database Database
	Rabbit   Rabbit
	Auth     Auth
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type Rabbit struct {
	Host     string
	Port     int
	User     string
	Password string
}

type Auth struct {
	Secret   string
	TokenTTL time.Duration
}

// Load reads an optional .env file and then the environment. Missing keys
// fall back to local-development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Database: Database{
			Host:     envStr("DB_HOST", "localhost"),
			Port:     envInt("DB_PORT", 5432),
			User:     envStr("DB_USER", "comandero"),
			Password: envStr("DB_PASSWORD", "comandero"),
			Name:     envStr("DB_NAME", "comandero"),
		},
		Rabbit: Rabbit{
			Host:     envStr("RABBITMQ_HOST", "localhost"),
			Port:     envInt("RABBITMQ_PORT", 5672),
			User:     envStr("RABBITMQ_USER", "guest"),
			Password: envStr("RABBITMQ_PASSWORD", "guest"),
		},
		Auth: Auth{
			Secret:   envStr("JWT_SECRET", "dev-secret-do-not-use"),
			TokenTTL: time.Duration(envInt("JWT_TTL_HOURS", 24)) * time.Hour,
		},
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

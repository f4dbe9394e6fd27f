package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string

	MongoURI string
	MongoDB  string

	RedisAddr string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins string

	// SpyfallRoundMinutes pins every spyfall round to a fixed length.
	// 0 honors each room's configured roundMinutes instead.
	SpyfallRoundMinutes int
}

func Load() *Config {
	return &Config{
		Env:                 getEnv("APP_ENV", "dev"),
		HTTPPort:            getEnv("PORT", "8000"),
		MongoURI:            getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGODB_DB", "buzzdb"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-please-change-in-production"),
		TokenTTL:            time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "*"),
		SpyfallRoundMinutes: getEnvInt("SPYFALL_ROUND_MINUTES", 2),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}

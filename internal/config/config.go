package config

import (
	"os"
	"strconv"
	"time"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Per-IP fixed-window rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Client-side guard against a hung aggregate fetch
	FetchTimeout time.Duration
	LoginTimeout time.Duration

	// Avatar object storage
	AvatarDir     string
	PublicBaseURL string

	// Signup creates unconfirmed accounts that cannot log in yet
	EmailConfirmRequired bool

	// Serve canned empty data instead of hitting Postgres
	MockMode bool
}

// Load reads configuration from the environment. DATABASE_URL and
// JWT_SECRET are mandatory unless mock mode is enabled.
func Load() *Config {
	_ = godotenv.Load()

	mockMode := os.Getenv("MOCK_MODE") == "true"

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && !mockMode {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" && !mockMode {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	avatarDir := os.Getenv("AVATAR_DIR")
	if avatarDir == "" {
		avatarDir = "./data/avatars"
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),

		FetchTimeout: envSeconds("FETCH_TIMEOUT_SECONDS", 5*time.Second),
		LoginTimeout: envSeconds("LOGIN_TIMEOUT_SECONDS", 15*time.Second),

		AvatarDir:     avatarDir,
		PublicBaseURL: baseURL,

		EmailConfirmRequired: os.Getenv("EMAIL_CONFIRM_REQUIRED") == "true",
		MockMode:             mockMode,
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

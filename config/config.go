package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPort                  = "8080"
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 10080
	DefaultLoginMaxAttempts      = 5
	DefaultLockoutMinutes        = 15
	DefaultRateLimitMaxRequests  = 30
	DefaultRateLimitWindowSec    = 60
	DefaultPasswordMinLength     = 8
	DefaultMaxActiveSessions     = 5
	DefaultAuditLogPath          = "logs/audit.log"
	DefaultLogLevel              = "info"
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int

	LoginMaxAttempts     int
	LockoutMinutes       int
	RateLimitMaxRequests int
	RateLimitWindowSec   int
	PasswordMinLength    int
	MaxActiveSessions    int
	AuditLogPath         string
	LogLevel             string
}

// Load reads configuration from environment variables, falling back to
// config/.env.dev or config/.env.prod depending on ENV, then to defaults.
// Environment variables always take precedence over file values.
func Load() *Config {
	env := getEnv("ENV", "development")

	fileVals := loadEnvFile(envFileName(env))

	return &Config{
		Env:                env,
		Port:               getValue("PORT", fileVals, DefaultPort),
		DBURL:              mustGetValue("DB_URL", fileVals),
		AccessTokenSecret:  mustGetValue("ACCESS_TOKEN_SECRET", fileVals),
		RefreshTokenSecret: mustGetValue("REFRESH_TOKEN_SECRET", fileVals),
		AccessExpiryMin:    getValueAsInt("ACCESS_TOKEN_EXPIRY", fileVals, DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:   getValueAsInt("REFRESH_TOKEN_EXPIRY", fileVals, DefaultRefreshTokenExpiryMin),

		LoginMaxAttempts:     getValueAsInt("LOGIN_MAX_ATTEMPTS", fileVals, DefaultLoginMaxAttempts),
		LockoutMinutes:       getValueAsInt("LOCKOUT_MINUTES", fileVals, DefaultLockoutMinutes),
		RateLimitMaxRequests: getValueAsInt("RATE_LIMIT_MAX_REQUESTS", fileVals, DefaultRateLimitMaxRequests),
		RateLimitWindowSec:   getValueAsInt("RATE_LIMIT_WINDOW_SECONDS", fileVals, DefaultRateLimitWindowSec),
		PasswordMinLength:    getValueAsInt("PASSWORD_MIN_LENGTH", fileVals, DefaultPasswordMinLength),
		MaxActiveSessions:    getValueAsInt("MAX_ACTIVE_SESSIONS", fileVals, DefaultMaxActiveSessions),
		AuditLogPath:         getValue("AUDIT_LOG_PATH", fileVals, DefaultAuditLogPath),
		LogLevel:             getValue("LOG_LEVEL", fileVals, DefaultLogLevel),
	}
}

func envFileName(env string) string {
	if env == "production" {
		return "config/.env.prod"
	}
	return "config/.env.dev"
}

// loadEnvFile parses KEY=VALUE lines from the given file. A missing file is
// not an error; the caller falls back to env vars and defaults.
func loadEnvFile(path string) map[string]string {
	vals := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		return vals
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		vals[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return vals
}

func getValue(key string, fileVals map[string]string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := fileVals[key]; ok && value != "" {
		return value
	}
	return defaultVal
}

func mustGetValue(key string, fileVals map[string]string) string {
	if value := getValue(key, fileVals, ""); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getValueAsInt(key string, fileVals map[string]string, defaultVal int) int {
	valStr := getValue(key, fileVals, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

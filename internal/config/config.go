package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile    string        // path to the starter-content yaml file (optional, empty = no seeding)
	DataFile    string        // local-mode data file (used only when redis is not configured)
	UndoWindow  time.Duration // how long a deletion stays undoable (default: 10s)
	SyncTimeout time.Duration // per-operation remote sync timeout (default: 5s)

	// Sessions
	SessionTTL     time.Duration // evict sessions idle longer than this (default: 30m)
	ReaperInterval time.Duration // interval to sweep idle sessions (default: 5m)

	// Auth
	AuthSecret string        // HMAC secret for bearer tokens (required in remote mode)
	TokenTTL   time.Duration // lifetime of issued tokens (default: 24h)

	// Redis (optional, empty RedisAddr = local single-user mode)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// LocalMode reports whether the service runs without redis, keeping a
// single user's data in a local file.
func (c *Config) LocalMode() bool {
	return c.RedisAddr == ""
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKORG_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKORG_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKORG_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKORG_PRETTY_LOG", true),

		// Content
		SeedFile:    getenv("LINKORG_SEED_FILE", ""),
		DataFile:    getenv("LINKORG_DATA_FILE", "/app/data/courses.json"),
		UndoWindow:  mustDuration("LINKORG_UNDO_WINDOW", 10*time.Second),
		SyncTimeout: mustDuration("LINKORG_SYNC_TIMEOUT", 5*time.Second),

		// Sessions
		SessionTTL:     mustDuration("LINKORG_SESSION_TTL", 30*time.Minute),
		ReaperInterval: mustDuration("LINKORG_REAPER_INTERVAL", 5*time.Minute),

		// Auth
		AuthSecret: getenv("LINKORG_AUTH_SECRET", ""),
		TokenTTL:   mustDuration("LINKORG_TOKEN_TTL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("LINKORG_REDIS_ADDR", ""),
		RedisUser:             getenv("LINKORG_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKORG_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKORG_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKORG_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKORG_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKORG_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKORG_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if !cfg.LocalMode() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKORG_REDIS_PASSWORD is required when LINKORG_REDIS_PASSWORD_REQUIRED=true")
	}

	// Remote mode serves many users and must be able to sign tokens
	if !cfg.LocalMode() && cfg.AuthSecret == "" {
		panic("❌ FATAL: LINKORG_AUTH_SECRET is required when LINKORG_REDIS_ADDR is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.AuthSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

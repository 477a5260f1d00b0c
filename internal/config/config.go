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

	// Store
	StoreMode string // "redis" | "memory" (memory = dev/test only, nothing survives restart)

	// Organization
	OrganizedRootTitle   string        // title of the folder the taxonomy is materialized under
	DefaultStrategy      string        // "clone" | "move"
	AutoOrganizeInterval time.Duration // periodic job start (0 = disabled)
	GCInterval           time.Duration // interval for the orphan metadata sweep (default: 24h)

	// Classification
	FetchTimeout    time.Duration // per-page fetch timeout (default: 3.5s)
	FetchMaxBytes   int           // per-page body cap (default: 150KB)
	ProviderSpacing time.Duration // minimum spacing between remote provider calls (default: 2s)
	OllamaURL       string        // base URL of a local Ollama instance (empty = provider disabled)
	OllamaModel     string        // model name for the Ollama provider

	// Rule and taxonomy files
	RulesFile      string        // path to rules.yaml (optional, empty = built-ins only)
	TaxonomyFile   string        // path to taxonomy.yaml (optional)
	ReloadInterval time.Duration // interval to reload the rule files (default: 24h)

	// Search
	SearchIndexPath string // bleve index directory (empty = in-memory index)

	// Redis
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
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CURATOR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CURATOR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CURATOR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CURATOR_PRETTY_LOG", true),

		// Store
		StoreMode: getenv("CURATOR_STORE", "redis"),

		// Organization
		OrganizedRootTitle:   getenv("CURATOR_ORGANIZED_ROOT", ""),
		DefaultStrategy:      getenv("CURATOR_DEFAULT_STRATEGY", "clone"),
		AutoOrganizeInterval: mustDuration("CURATOR_AUTO_ORGANIZE_INTERVAL", 0),
		GCInterval:           mustDuration("CURATOR_GC_INTERVAL", 24*time.Hour),

		// Classification
		FetchTimeout:    mustDuration("CURATOR_FETCH_TIMEOUT", 3500*time.Millisecond),
		FetchMaxBytes:   getenvInt("CURATOR_FETCH_MAX_BYTES", 150*1024),
		ProviderSpacing: mustDuration("CURATOR_PROVIDER_SPACING", 2*time.Second),
		OllamaURL:       getenv("CURATOR_OLLAMA_URL", ""),
		OllamaModel:     getenv("CURATOR_OLLAMA_MODEL", ""),

		// Rule and taxonomy files
		RulesFile:      getenv("CURATOR_RULES_FILE", ""),
		TaxonomyFile:   getenv("CURATOR_TAXONOMY_FILE", ""),
		ReloadInterval: mustDuration("CURATOR_RELOAD_SOURCE_INTERVAL", 24*time.Hour),

		// Search
		SearchIndexPath: getenv("CURATOR_SEARCH_INDEX_PATH", ""),

		// Redis settings
		RedisAddr:             getenv("CURATOR_REDIS_ADDR", ""),
		RedisUser:             getenv("CURATOR_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("CURATOR_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("CURATOR_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("CURATOR_REDIS_DB", 0),
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
		AllowedHosts: splitAndTrim(getenv("CURATOR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("CURATOR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CURATOR_TRUST_PROXY", true),
	}

	// Validate store configuration
	if cfg.StoreMode != "redis" && cfg.StoreMode != "memory" {
		panic("❌ FATAL: CURATOR_STORE must be \"redis\" or \"memory\"")
	}
	if cfg.StoreMode == "redis" && cfg.RedisAddr == "" {
		panic("❌ FATAL: Required environment variable CURATOR_REDIS_ADDR is not set")
	}
	if cfg.StoreMode == "redis" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CURATOR_REDIS_PASSWORD is required when CURATOR_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.DefaultStrategy != "clone" && cfg.DefaultStrategy != "move" {
		panic("❌ FATAL: CURATOR_DEFAULT_STRATEGY must be \"clone\" or \"move\"")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
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

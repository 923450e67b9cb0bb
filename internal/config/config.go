package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	CatalogFileName         = "coinquery.dat"
	ArchiveFileName         = "coinquery.db"
)

type Config struct {
	// Construction options.
	Autofind    bool
	DYM         bool
	TimeoutSecs int
	FilePath    string
	Debug       bool

	CoinGeckoBaseURL string

	DatabaseURL       string
	RedisURL          string
	PriceCacheTTLSecs int

	ArchiveEnabled bool
	ArchiveLimit   int
	ArchiveHourUTC int

	TelegramBotToken string
	HTTPPort         int
	APIKey           string

	TracingEnabled bool
	OTLPEndpoint   string

	SSHPort        int
	SSHHostKeyPath string
	// SSHAllowedKeys holds SHA256 public key fingerprints. Empty allows any key.
	SSHAllowedKeys []string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		OTLPEndpoint:     strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	cfg.Autofind = envBool("COINQUERY_AUTOFIND", true)
	cfg.DYM = envBool("COINQUERY_DYM", true)
	cfg.Debug = envBool("COINQUERY_DEBUG", false)

	cfg.TimeoutSecs = 5
	if v := strings.TrimSpace(os.Getenv("COINQUERY_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSecs = n
		}
	}

	cfg.FilePath = strings.TrimSpace(os.Getenv("COINQUERY_FILEPATH"))
	if cfg.FilePath == "" {
		cfg.FilePath = "."
	}

	cfg.CoinGeckoBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")), "/")
	if cfg.CoinGeckoBaseURL == "" {
		cfg.CoinGeckoBaseURL = DefaultCoinGeckoBaseURL
	}

	cfg.PriceCacheTTLSecs = 60
	if v := strings.TrimSpace(os.Getenv("PRICE_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PriceCacheTTLSecs = n
		}
	}

	cfg.ArchiveEnabled = envBool("ARCHIVE_ENABLED", false)

	cfg.ArchiveLimit = 5
	if v := strings.TrimSpace(os.Getenv("ARCHIVE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 250 {
			cfg.ArchiveLimit = n
		}
	}

	cfg.ArchiveHourUTC = 0
	if v := strings.TrimSpace(os.Getenv("ARCHIVE_HOUR_UTC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
			cfg.ArchiveHourUTC = n
		}
	}

	cfg.TracingEnabled = envBool("TRACING_ENABLED", true)
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/coinquery_ed25519"
	}
	for _, fp := range strings.Split(os.Getenv("SSH_ALLOWED_KEYS"), ",") {
		if fp = strings.TrimSpace(fp); fp != "" {
			cfg.SSHAllowedKeys = append(cfg.SSHAllowedKeys, fp)
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	return cfg
}

// Timeout is the per-call deadline for remote requests.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CatalogPath is where the coin catalog snapshot is persisted.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.FilePath, CatalogFileName)
}

func (c *Config) ArchivePath() string {
	return filepath.Join(c.FilePath, ArchiveFileName)
}

func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTLSecs) * time.Second
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies FOLIOBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known FOLIOBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Database ──
	setStr(&cfg.Database.DSN, "FOLIOBOT_DATABASE_DSN")
	setStr(&cfg.Database.Host, "FOLIOBOT_DATABASE_HOST")
	setInt(&cfg.Database.Port, "FOLIOBOT_DATABASE_PORT")
	setStr(&cfg.Database.Database, "FOLIOBOT_DATABASE_DATABASE")
	setStr(&cfg.Database.User, "FOLIOBOT_DATABASE_USER")
	setStr(&cfg.Database.Password, "FOLIOBOT_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "FOLIOBOT_DATABASE_SSL_MODE")
	setInt(&cfg.Database.PoolMaxConns, "FOLIOBOT_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "FOLIOBOT_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "FOLIOBOT_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "FOLIOBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "FOLIOBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "FOLIOBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "FOLIOBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "FOLIOBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "FOLIOBOT_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "FOLIOBOT_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "FOLIOBOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "FOLIOBOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "FOLIOBOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "FOLIOBOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "FOLIOBOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "FOLIOBOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "FOLIOBOT_S3_FORCE_PATH_STYLE")

	// ── Oracle ──
	setStr(&cfg.Oracle.BaseURL, "FOLIOBOT_ORACLE_BASE_URL")
	setDuration(&cfg.Oracle.Timeout, "FOLIOBOT_ORACLE_TIMEOUT")
	setDuration(&cfg.Oracle.CacheTTL, "FOLIOBOT_ORACLE_CACHE_TTL")

	// ── Gemini ──
	setBool(&cfg.Gemini.Enabled, "FOLIOBOT_GEMINI_ENABLED")
	setStr(&cfg.Gemini.APIKey, "FOLIOBOT_GEMINI_API_KEY")
	setStr(&cfg.Gemini.Model, "FOLIOBOT_GEMINI_MODEL")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "FOLIOBOT_NOTIFY_TELEGRAM_TOKEN")

	// ── Scheduler ──
	setDuration(&cfg.Scheduler.SweepInterval, "FOLIOBOT_SCHEDULER_SWEEP_INTERVAL")
	setDuration(&cfg.Scheduler.SweepLockTTL, "FOLIOBOT_SCHEDULER_SWEEP_LOCK_TTL")
	setInt(&cfg.Scheduler.ArchiveRetentionDays, "FOLIOBOT_SCHEDULER_ARCHIVE_RETENTION_DAYS")
	setStr(&cfg.Scheduler.ArchiveCron, "FOLIOBOT_SCHEDULER_ARCHIVE_CRON")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "FOLIOBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/avelichko/foliobot/internal/blob/s3"
	"github.com/avelichko/foliobot/internal/cache/redis"
	"github.com/avelichko/foliobot/internal/config"
	"github.com/avelichko/foliobot/internal/domain"
	"github.com/avelichko/foliobot/internal/notify"
	"github.com/avelichko/foliobot/internal/platform/coingecko"
	"github.com/avelichko/foliobot/internal/service"
	"github.com/avelichko/foliobot/internal/store/postgres"
	"github.com/avelichko/foliobot/internal/summarize"
)

// Dependencies bundles every dependency the application needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	LedgerStore domain.LedgerStore
	AlertStore  domain.AlertStore
	UserStore   domain.UserStore
	AuditStore  domain.AuditStore

	// Caches and locks
	PriceCache  domain.PriceCache
	LockManager domain.LockManager

	// Blob storage (nil unless S3 is enabled)
	BlobWriter domain.BlobWriter
	Archiver   domain.Archiver

	// Services
	Prices    *service.PriceService
	Ledger    *service.Ledger
	Alerts    *service.AlertRegistry
	Portfolio *service.PortfolioValuer
	Users     *service.Users
	Market    *service.Market

	// Notifications
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.LedgerStore = postgres.NewLedgerStore(pool)
	deps.AlertStore = postgres.NewAlertStore(pool)
	deps.UserStore = postgres.NewUserStore(pool)
	deps.AuditStore = postgres.NewAuditStore(pool)

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.PriceCache = redis.NewPriceCache(redisClient, cfg.Oracle.CacheTTL.Duration)
	deps.LockManager = redis.NewLockManager(redisClient)

	// --- S3 blob storage (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.LedgerStore, deps.AlertStore, deps.AuditStore)
	}

	// --- Price oracle ---
	oracle := coingecko.New(cfg.Oracle.BaseURL, cfg.Oracle.Timeout.Duration)

	// --- Summarizer (optional) ---
	var summarizer domain.Summarizer
	if cfg.Gemini.Enabled {
		gem, err := summarize.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: gemini: %w", err)
		}
		summarizer = gem
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken))
	}
	deps.Notifier = notify.NewNotifier(senders, logger)

	// --- Services ---
	deps.Prices = service.NewPriceService(oracle, deps.PriceCache, logger)
	deps.Ledger = service.NewLedger(deps.LedgerStore, deps.Prices, deps.AuditStore, logger)
	deps.Alerts = service.NewAlertRegistry(deps.AlertStore, deps.Prices, deps.AuditStore, logger)
	deps.Portfolio = service.NewPortfolioValuer(deps.LedgerStore, deps.Prices.CurrentPrice, logger)
	deps.Users = service.NewUsers(deps.UserStore, logger)
	deps.Market = service.NewMarket(deps.Prices, summarizer, logger)

	return deps, cleanup, nil
}

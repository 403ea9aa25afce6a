package domain

import (
	"context"
	"io"
	"time"
)

// PriceOracle resolves coin symbols to market data. Implementations are
// network-backed and may fail transiently; callers decide per call site
// whether a failure degrades (read paths) or surfaces (write paths).
type PriceOracle interface {
	// CurrentPrice returns the current price for a lowercase coin symbol,
	// or ErrNotFound when the coin does not resolve.
	CurrentPrice(ctx context.Context, coin string) (float64, error)
	// Lookup returns full metadata for one coin.
	Lookup(ctx context.Context, symbol string) (Coin, error)
	// TopCoins returns the top-n coins by market cap.
	TopCoins(ctx context.Context, n int) ([]Coin, error)
	// Global returns the aggregate market snapshot.
	Global(ctx context.Context) (GlobalMarket, error)
}

// PriceLookup is the narrow lookup the portfolio valuer needs.
type PriceLookup func(ctx context.Context, coin string) (float64, error)

// PriceCache stores recently fetched oracle prices.
type PriceCache interface {
	SetPrice(ctx context.Context, coin string, price float64, ts time.Time) error
	// GetPrice returns ErrNotFound when no fresh price is cached.
	GetPrice(ctx context.Context, coin string) (float64, time.Time, error)
}

// LockManager provides distributed locks, used to serialize the alert sweep
// across processes.
type LockManager interface {
	// Acquire returns an unlock func on success or ErrLockHeld when the lock
	// is taken. The unlock func is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Summarizer condenses a market snapshot into a short natural-language recap.
type Summarizer interface {
	Summarize(ctx context.Context, snapshot string) (string, error)
}

// BlobWriter uploads objects to cold storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Archiver moves aged rows to cold storage. Counts of archived records are
// returned; rows are not deleted from the primary store.
type Archiver interface {
	ArchiveTransactions(ctx context.Context, before time.Time) (int64, error)
	ArchiveAlerts(ctx context.Context, before time.Time) (int64, error)
}

// Package service holds the application services: the ledger, alert registry,
// portfolio valuer, user profiles, and market data.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// PriceService is a cache-aside layer over the price oracle. Reads hit Redis
// first and fall through to the oracle on a miss; oracle results are written
// back with the cache TTL governing freshness.
type PriceService struct {
	oracle domain.PriceOracle
	cache  domain.PriceCache
	logger *slog.Logger
}

// NewPriceService creates a PriceService. cache may be nil, in which case
// every read goes to the oracle.
func NewPriceService(oracle domain.PriceOracle, cache domain.PriceCache, logger *slog.Logger) *PriceService {
	return &PriceService{
		oracle: oracle,
		cache:  cache,
		logger: logger,
	}
}

// CurrentPrice returns the current USD price for a coin, preferring the cache.
func (s *PriceService) CurrentPrice(ctx context.Context, coin string) (float64, error) {
	if s.cache != nil {
		price, _, err := s.cache.GetPrice(ctx, coin)
		if err == nil {
			return price, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "prices: cache read failed",
				slog.String("coin", coin),
				slog.String("error", err.Error()),
			)
		}
	}

	price, err := s.oracle.CurrentPrice(ctx, coin)
	if err != nil {
		return 0, fmt.Errorf("prices: current price %s: %w", coin, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetPrice(ctx, coin, price, time.Now().UTC()); cacheErr != nil {
			s.logger.WarnContext(ctx, "prices: cache write failed",
				slog.String("coin", coin),
				slog.String("error", cacheErr.Error()),
			)
		}
	}

	return price, nil
}

// Resolve checks that a coin symbol is known to the oracle and returns its
// metadata. Used to validate coins before accepting ledger entries or alerts.
func (s *PriceService) Resolve(ctx context.Context, symbol string) (domain.Coin, error) {
	coin, err := s.oracle.Lookup(ctx, symbol)
	if err != nil {
		return domain.Coin{}, fmt.Errorf("prices: resolve %s: %w", symbol, err)
	}
	return coin, nil
}

// TopCoins returns the top-n coins by market cap.
func (s *PriceService) TopCoins(ctx context.Context, n int) ([]domain.Coin, error) {
	coins, err := s.oracle.TopCoins(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("prices: top coins: %w", err)
	}
	return coins, nil
}

// Global returns the aggregate market snapshot.
func (s *PriceService) Global(ctx context.Context) (domain.GlobalMarket, error) {
	g, err := s.oracle.Global(ctx)
	if err != nil {
		return domain.GlobalMarket{}, fmt.Errorf("prices: global: %w", err)
	}
	return g, nil
}

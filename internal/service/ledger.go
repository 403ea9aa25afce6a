package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// Ledger records buys and sells and serves transaction history. Cost basis is
// folded into the position table by the store in the same transaction as the
// ledger append.
type Ledger struct {
	store  domain.LedgerStore
	prices *PriceService
	audit  domain.AuditStore
	logger *slog.Logger
}

// NewLedger creates a Ledger with all required dependencies.
func NewLedger(store domain.LedgerStore, prices *PriceService, audit domain.AuditStore, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		prices: prices,
		audit:  audit,
		logger: logger,
	}
}

// RecordBuy appends a buy and raises the position's cost basis toward the
// buy price.
func (l *Ledger) RecordBuy(ctx context.Context, userID int64, coin string, amount, unitPrice float64) (domain.Transaction, error) {
	return l.record(ctx, userID, coin, domain.SideBuy, amount, unitPrice)
}

// RecordSell appends a sell, leaving the remaining position's average price
// unchanged. A sell that exceeds the current holdings returns
// domain.ErrInsufficientHoldings and writes nothing.
func (l *Ledger) RecordSell(ctx context.Context, userID int64, coin string, amount, unitPrice float64) (domain.Transaction, error) {
	return l.record(ctx, userID, coin, domain.SideSell, amount, unitPrice)
}

func (l *Ledger) record(ctx context.Context, userID int64, coin string, side domain.Side, amount, unitPrice float64) (domain.Transaction, error) {
	coin, err := normalizeCoin(coin)
	if err != nil {
		return domain.Transaction{}, err
	}
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("ledger: %w: amount must be positive, got %g", domain.ErrInvalidInput, amount)
	}
	if unitPrice <= 0 {
		return domain.Transaction{}, fmt.Errorf("ledger: %w: unit price must be positive, got %g", domain.ErrInvalidInput, unitPrice)
	}

	// Reject coins the oracle cannot resolve; a position nobody can value is
	// worse than a rejected entry. Oracle outages surface to the caller
	// unchanged so they can retry.
	if _, err := l.prices.Resolve(ctx, coin); err != nil {
		return domain.Transaction{}, fmt.Errorf("ledger: validate coin: %w", err)
	}

	tx := domain.Transaction{
		UserID:    userID,
		Coin:      coin,
		Side:      side,
		Amount:    amount,
		UnitPrice: unitPrice,
		Total:     amount * unitPrice,
		CreatedAt: time.Now().UTC(),
	}

	id, err := l.store.Record(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("ledger: record %s: %w", side, err)
	}
	tx.ID = id

	if auditErr := l.audit.Log(ctx, "transaction_recorded", map[string]any{
		"tx_id":      tx.ID,
		"user_id":    tx.UserID,
		"coin":       tx.Coin,
		"side":       string(tx.Side),
		"amount":     tx.Amount,
		"unit_price": tx.UnitPrice,
		"total":      tx.Total,
	}); auditErr != nil {
		l.logger.WarnContext(ctx, "ledger: audit log failed",
			slog.Int64("tx_id", tx.ID),
			slog.String("error", auditErr.Error()),
		)
	}

	l.logger.InfoContext(ctx, "ledger: transaction recorded",
		slog.Int64("tx_id", tx.ID),
		slog.Int64("user_id", tx.UserID),
		slog.String("coin", tx.Coin),
		slog.String("side", string(tx.Side)),
		slog.Float64("amount", tx.Amount),
		slog.Float64("unit_price", tx.UnitPrice),
	)

	return tx, nil
}

// Positions returns the user's current holdings ordered by amount descending.
func (l *Ledger) Positions(ctx context.Context, userID int64) ([]domain.Position, error) {
	positions, err := l.store.Positions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger: positions for %d: %w", userID, err)
	}
	return positions, nil
}

// History returns the user's most recent transactions, newest first.
func (l *Ledger) History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	txs, err := l.store.Transactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: history for %d: %w", userID, err)
	}
	return txs, nil
}

// normalizeCoin lowercases and trims a coin symbol, rejecting blanks.
func normalizeCoin(coin string) (string, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return "", fmt.Errorf("ledger: %w: coin symbol is required", domain.ErrInvalidInput)
	}
	return coin, nil
}

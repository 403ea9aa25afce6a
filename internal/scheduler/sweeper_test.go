package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/foliobot/internal/domain"
	"github.com/avelichko/foliobot/internal/notify"
	"github.com/avelichko/foliobot/internal/service"
)

// memAlertStore holds alerts in memory for sweep tests.
type memAlertStore struct {
	alerts map[int64]domain.Alert
	nextID int64
}

func newMemAlertStore() *memAlertStore {
	return &memAlertStore{alerts: make(map[int64]domain.Alert)}
}

func (m *memAlertStore) Create(_ context.Context, a domain.Alert) (int64, error) {
	m.nextID++
	a.ID = m.nextID
	m.alerts[a.ID] = a
	return a.ID, nil
}

func (m *memAlertStore) ListActive(_ context.Context, userID int64) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range m.alerts {
		if a.UserID == userID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAlertStore) ListAllActive(_ context.Context) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range m.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAlertStore) GetByID(_ context.Context, id int64) (domain.Alert, error) {
	a, ok := m.alerts[id]
	if !ok {
		return domain.Alert{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memAlertStore) Delete(_ context.Context, id, userID int64) (bool, error) {
	a, ok := m.alerts[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(m.alerts, id)
	return true, nil
}

func (m *memAlertStore) Deactivate(_ context.Context, id int64) error {
	if a, ok := m.alerts[id]; ok {
		a.Active = false
		m.alerts[id] = a
	}
	return nil
}

func (m *memAlertStore) ListInactiveBefore(_ context.Context, before time.Time) ([]domain.Alert, error) {
	return nil, nil
}

// priceOracle serves a fixed price table.
type priceOracle map[string]float64

func (p priceOracle) CurrentPrice(_ context.Context, coin string) (float64, error) {
	v, ok := p[coin]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return v, nil
}

func (p priceOracle) Lookup(_ context.Context, symbol string) (domain.Coin, error) {
	v, ok := p[symbol]
	if !ok {
		return domain.Coin{}, domain.ErrNotFound
	}
	return domain.Coin{Symbol: symbol, CurrentPrice: v}, nil
}

func (p priceOracle) TopCoins(_ context.Context, n int) ([]domain.Coin, error) {
	return nil, nil
}

func (p priceOracle) Global(_ context.Context) (domain.GlobalMarket, error) {
	return domain.GlobalMarket{}, nil
}

// memLocks is a LockManager whose behavior is scripted per test.
type memLocks struct {
	held     bool
	acquired int
}

func (m *memLocks) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	if m.held {
		return nil, domain.ErrLockHeld
	}
	m.acquired++
	return func() {}, nil
}

type nopAudit struct{}

func (nopAudit) Log(_ context.Context, _ string, _ map[string]any) error { return nil }

func newTestSweeper(store *memAlertStore, oracle priceOracle, locks *memLocks) (*Sweeper, *recordingSender) {
	logger := testLogger()
	prices := service.NewPriceService(oracle, nil, logger)
	registry := service.NewAlertRegistry(store, prices, nopAudit{}, logger)
	sender := newRecordingSender()
	notifier := notify.NewNotifier([]notify.Sender{sender}, logger)
	return NewSweeper(registry, notifier, locks, time.Minute, logger), sender
}

func TestSweeperSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers fired alerts to their owners", func(t *testing.T) {
		store := newMemAlertStore()
		_, err := store.Create(ctx, domain.Alert{UserID: 1, Coin: "btc", TargetPrice: 50000, Direction: domain.AlertAbove, Active: true, CreatedAt: time.Now().UTC()})
		require.NoError(t, err)

		locks := &memLocks{}
		sweeper, sender := newTestSweeper(store, priceOracle{"btc": 51000}, locks)

		sweeper.sweep(ctx)

		require.Len(t, sender.sent[1], 1)
		assert.Contains(t, sender.sent[1][0], "BTC")
		assert.Contains(t, sender.sent[1][0], "above")
		assert.Equal(t, 1, locks.acquired)
	})

	t.Run("skips the round when the lock is held", func(t *testing.T) {
		store := newMemAlertStore()
		id, err := store.Create(ctx, domain.Alert{UserID: 1, Coin: "btc", TargetPrice: 50000, Direction: domain.AlertAbove, Active: true, CreatedAt: time.Now().UTC()})
		require.NoError(t, err)

		locks := &memLocks{held: true}
		sweeper, sender := newTestSweeper(store, priceOracle{"btc": 51000}, locks)

		sweeper.sweep(ctx)

		assert.Empty(t, sender.sent)
		got, err := store.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Active)
	})
}

func TestFormatAlertMessage(t *testing.T) {
	msg := formatAlertMessage(service.FiredAlert{
		Alert: domain.Alert{Coin: "eth", TargetPrice: 3000, Direction: domain.AlertBelow},
		Price: 2950.5,
	})
	assert.Equal(t, "Price alert: ETH is below your target of $3000.00 (current price $2950.50)", msg)
}

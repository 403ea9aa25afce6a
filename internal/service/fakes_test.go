package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOracle serves prices from a fixed map. A non-nil err fails every call.
type fakeOracle struct {
	prices map[string]float64
	err    error
}

func (f *fakeOracle) CurrentPrice(_ context.Context, coin string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	p, ok := f.prices[coin]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeOracle) Lookup(_ context.Context, symbol string) (domain.Coin, error) {
	if f.err != nil {
		return domain.Coin{}, f.err
	}
	p, ok := f.prices[symbol]
	if !ok {
		return domain.Coin{}, domain.ErrNotFound
	}
	return domain.Coin{Symbol: symbol, CurrentPrice: p}, nil
}

func (f *fakeOracle) TopCoins(_ context.Context, n int) ([]domain.Coin, error) {
	if f.err != nil {
		return nil, f.err
	}
	symbols := make([]string, 0, len(f.prices))
	for s := range f.prices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	coins := make([]domain.Coin, 0, n)
	for _, s := range symbols {
		if len(coins) == n {
			break
		}
		coins = append(coins, domain.Coin{Symbol: s, Name: s, CurrentPrice: f.prices[s]})
	}
	return coins, nil
}

func (f *fakeOracle) Global(_ context.Context) (domain.GlobalMarket, error) {
	if f.err != nil {
		return domain.GlobalMarket{}, f.err
	}
	return domain.GlobalMarket{TotalMarketCap: 2e12, MarketCapChange: 1.5, BTCDominancePct: 52.0}, nil
}

// fakeLedgerStore keeps transactions and positions in memory, applying the
// same cost-basis folding as the real store.
type fakeLedgerStore struct {
	txs       []domain.Transaction
	positions map[string]domain.Position // keyed by coin; tests use one user
	nextID    int64
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{positions: make(map[string]domain.Position)}
}

func (f *fakeLedgerStore) Record(_ context.Context, tx domain.Transaction) (int64, error) {
	pos, ok := f.positions[tx.Coin]
	if tx.Side == domain.SideSell {
		if !ok || tx.Amount-pos.Amount > domain.AmountEpsilon {
			return 0, domain.ErrInsufficientHoldings
		}
	}
	if !ok {
		pos = domain.Position{UserID: tx.UserID, Coin: tx.Coin, CreatedAt: tx.CreatedAt}
	}

	switch tx.Side {
	case domain.SideBuy:
		f.positions[tx.Coin] = pos.ApplyBuy(tx.Amount, tx.UnitPrice)
	case domain.SideSell:
		next, empty := pos.ApplySell(tx.Amount)
		if empty {
			delete(f.positions, tx.Coin)
		} else {
			f.positions[tx.Coin] = next
		}
	}

	f.nextID++
	tx.ID = f.nextID
	f.txs = append(f.txs, tx)
	return tx.ID, nil
}

func (f *fakeLedgerStore) Positions(_ context.Context, userID int64) ([]domain.Position, error) {
	var out []domain.Position
	for _, p := range f.positions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out, nil
}

func (f *fakeLedgerStore) Transactions(_ context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(f.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.txs[i].UserID == userID {
			out = append(out, f.txs[i])
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) TransactionsBefore(_ context.Context, before time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range f.txs {
		if tx.CreatedAt.Before(before) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// fakeAlertStore keeps alerts in an in-memory map.
type fakeAlertStore struct {
	alerts map[int64]domain.Alert
	nextID int64
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{alerts: make(map[int64]domain.Alert)}
}

func (f *fakeAlertStore) Create(_ context.Context, a domain.Alert) (int64, error) {
	f.nextID++
	a.ID = f.nextID
	f.alerts[a.ID] = a
	return a.ID, nil
}

func (f *fakeAlertStore) ListActive(_ context.Context, userID int64) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range f.alerts {
		if a.UserID == userID && a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeAlertStore) ListAllActive(_ context.Context) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range f.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlertStore) GetByID(_ context.Context, id int64) (domain.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return domain.Alert{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAlertStore) Delete(_ context.Context, id, userID int64) (bool, error) {
	a, ok := f.alerts[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(f.alerts, id)
	return true, nil
}

func (f *fakeAlertStore) Deactivate(_ context.Context, id int64) error {
	if a, ok := f.alerts[id]; ok {
		a.Active = false
		f.alerts[id] = a
	}
	return nil
}

func (f *fakeAlertStore) ListInactiveBefore(_ context.Context, before time.Time) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range f.alerts {
		if !a.Active && a.CreatedAt.Before(before) {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeUserStore keeps profiles in an in-memory map.
type fakeUserStore struct {
	users map[int64]domain.UserProfile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]domain.UserProfile)}
}

func (f *fakeUserStore) Upsert(_ context.Context, userID int64, timezone, summaryAt *string) error {
	u, ok := f.users[userID]
	if !ok {
		u = domain.UserProfile{
			UserID:    userID,
			Timezone:  domain.DefaultTimezone,
			SummaryAt: domain.DefaultSummaryAt,
		}
	}
	if timezone != nil {
		u.Timezone = *timezone
	}
	if summaryAt != nil {
		u.SummaryAt = *summaryAt
	}
	f.users[userID] = u
	return nil
}

func (f *fakeUserStore) Get(_ context.Context, userID int64) (domain.UserProfile, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) All(_ context.Context) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// fakeAuditStore records event names.
type fakeAuditStore struct {
	events []string
}

func (f *fakeAuditStore) Log(_ context.Context, event string, _ map[string]any) error {
	f.events = append(f.events, event)
	return nil
}

// Interface checks for the fakes.
var (
	_ domain.PriceOracle = (*fakeOracle)(nil)
	_ domain.LedgerStore = (*fakeLedgerStore)(nil)
	_ domain.AlertStore  = (*fakeAlertStore)(nil)
	_ domain.UserStore   = (*fakeUserStore)(nil)
	_ domain.AuditStore  = (*fakeAuditStore)(nil)
)

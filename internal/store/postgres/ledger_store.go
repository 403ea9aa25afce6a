package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelichko/foliobot/internal/domain"
)

// LedgerStore implements domain.LedgerStore using PostgreSQL. The transaction
// append and the position update happen inside one SQL transaction, with the
// position row locked FOR UPDATE so concurrent records for the same
// (user, coin) serialize on the row.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a LedgerStore backed by the given connection pool.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Record appends tx and folds it into the derived position.
func (s *LedgerStore) Record(ctx context.Context, tx domain.Transaction) (int64, error) {
	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin record: %w", err)
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	// Lock the position row first so a sell can be rejected before anything
	// is written.
	var pos domain.Position
	havePosition := true
	err = dbTx.QueryRow(ctx,
		`SELECT user_id, coin, amount, avg_price, created_at
		 FROM positions WHERE user_id = $1 AND coin = $2 FOR UPDATE`,
		tx.UserID, tx.Coin,
	).Scan(&pos.UserID, &pos.Coin, &pos.Amount, &pos.AvgPrice, &pos.CreatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("postgres: lock position %d/%s: %w", tx.UserID, tx.Coin, err)
		}
		havePosition = false
	}

	if tx.Side == domain.SideSell {
		if !havePosition || tx.Amount-pos.Amount > domain.AmountEpsilon {
			return 0, domain.ErrInsufficientHoldings
		}
	}

	var id int64
	err = dbTx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, coin, side, amount, unit_price, total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		tx.UserID, tx.Coin, string(tx.Side), tx.Amount, tx.UnitPrice, tx.Total, tx.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert transaction: %w", err)
	}

	switch tx.Side {
	case domain.SideBuy:
		if !havePosition {
			_, err = dbTx.Exec(ctx,
				`INSERT INTO positions (user_id, coin, amount, avg_price)
				 VALUES ($1, $2, $3, $4)`,
				tx.UserID, tx.Coin, tx.Amount, tx.UnitPrice,
			)
		} else {
			pos = pos.ApplyBuy(tx.Amount, tx.UnitPrice)
			_, err = dbTx.Exec(ctx,
				`UPDATE positions SET amount = $3, avg_price = $4
				 WHERE user_id = $1 AND coin = $2`,
				tx.UserID, tx.Coin, pos.Amount, pos.AvgPrice,
			)
		}
	case domain.SideSell:
		var empty bool
		pos, empty = pos.ApplySell(tx.Amount)
		if empty {
			_, err = dbTx.Exec(ctx,
				`DELETE FROM positions WHERE user_id = $1 AND coin = $2`,
				tx.UserID, tx.Coin,
			)
		} else {
			// avg_price deliberately untouched: sells never move cost basis.
			_, err = dbTx.Exec(ctx,
				`UPDATE positions SET amount = $3
				 WHERE user_id = $1 AND coin = $2`,
				tx.UserID, tx.Coin, pos.Amount,
			)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: update position %d/%s: %w", tx.UserID, tx.Coin, err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit record: %w", err)
	}
	return id, nil
}

// Positions returns the user's positions ordered by amount descending.
func (s *LedgerStore) Positions(ctx context.Context, userID int64) ([]domain.Position, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, coin, amount, avg_price, created_at
		 FROM positions WHERE user_id = $1
		 ORDER BY amount DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.UserID, &p.Coin, &p.Amount, &p.AvgPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Transactions returns the user's most recent transactions, newest first.
func (s *LedgerStore) Transactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, coin, side, amount, unit_price, total, created_at
		 FROM transactions WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// TransactionsBefore returns all transactions created strictly before the
// cutoff, oldest first, for archival.
func (s *LedgerStore) TransactionsBefore(ctx context.Context, before time.Time) ([]domain.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, coin, side, amount, unit_price, total, created_at
		 FROM transactions WHERE created_at < $1
		 ORDER BY created_at ASC`, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions before %v: %w", before, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var side string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Coin, &side,
			&tx.Amount, &tx.UnitPrice, &tx.Total, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan transaction: %w", err)
		}
		tx.Side = domain.Side(side)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Compile-time interface check.
var _ domain.LedgerStore = (*LedgerStore)(nil)

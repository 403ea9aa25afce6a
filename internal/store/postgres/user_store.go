package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelichko/foliobot/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a UserStore backed by the given connection pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Upsert creates the profile with defaults on first contact and applies the
// timezone and summary-time updates when given.
func (s *UserStore) Upsert(ctx context.Context, userID int64, timezone, summaryAt *string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, tz, summary_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
			tz         = COALESCE($4, users.tz),
			summary_at = COALESCE($5, users.summary_at)`,
		userID,
		valueOr(timezone, domain.DefaultTimezone),
		valueOr(summaryAt, domain.DefaultSummaryAt),
		timezone, summaryAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert user %d: %w", userID, err)
	}
	return nil
}

// Get returns the profile for userID or domain.ErrNotFound.
func (s *UserStore) Get(ctx context.Context, userID int64) (domain.UserProfile, error) {
	var u domain.UserProfile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, tz, summary_at FROM users WHERE user_id = $1`, userID,
	).Scan(&u.UserID, &u.Timezone, &u.SummaryAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserProfile{}, domain.ErrNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("postgres: get user %d: %w", userID, err)
	}
	return u, nil
}

// All returns every user profile, for rescheduling summaries on startup.
func (s *UserStore) All(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, tz, summary_at FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserProfile
	for rows.Next() {
		var u domain.UserProfile
		if err := rows.Scan(&u.UserID, &u.Timezone, &u.SummaryAt); err != nil {
			return nil, fmt.Errorf("postgres: scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func valueOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

// Compile-time interface check.
var _ domain.UserStore = (*UserStore)(nil)

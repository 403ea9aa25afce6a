package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// summaryAtRe matches a 24-hour HH:MM clock time.
var summaryAtRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Users manages user profiles: timezone and daily-summary time settings.
type Users struct {
	store  domain.UserStore
	logger *slog.Logger
}

// NewUsers creates a Users service.
func NewUsers(store domain.UserStore, logger *slog.Logger) *Users {
	return &Users{store: store, logger: logger}
}

// Touch makes sure a profile with default settings exists for userID. Called
// on first contact so later settings updates always have a row to hit.
func (u *Users) Touch(ctx context.Context, userID int64) error {
	if err := u.store.Upsert(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("users: touch %d: %w", userID, err)
	}
	return nil
}

// SetTimezone updates the user's IANA timezone, e.g. "Europe/Berlin".
func (u *Users) SetTimezone(ctx context.Context, userID int64, tz string) error {
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return fmt.Errorf("users: %w: unknown timezone %q", domain.ErrInvalidInput, tz)
	}

	if err := u.store.Upsert(ctx, userID, &tz, nil); err != nil {
		return fmt.Errorf("users: set timezone for %d: %w", userID, err)
	}

	u.logger.InfoContext(ctx, "users: timezone updated",
		slog.Int64("user_id", userID),
		slog.String("tz", tz),
	)
	return nil
}

// SetSummaryTime updates the local HH:MM at which the user receives the
// daily summary.
func (u *Users) SetSummaryTime(ctx context.Context, userID int64, at string) error {
	if !summaryAtRe.MatchString(at) {
		return fmt.Errorf("users: %w: summary time must be HH:MM, got %q", domain.ErrInvalidInput, at)
	}

	if err := u.store.Upsert(ctx, userID, nil, &at); err != nil {
		return fmt.Errorf("users: set summary time for %d: %w", userID, err)
	}

	u.logger.InfoContext(ctx, "users: summary time updated",
		slog.Int64("user_id", userID),
		slog.String("summary_at", at),
	)
	return nil
}

// Get returns the profile for userID, falling back to defaults when the user
// has never been seen.
func (u *Users) Get(ctx context.Context, userID int64) (domain.UserProfile, error) {
	profile, err := u.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UserProfile{
				UserID:    userID,
				Timezone:  domain.DefaultTimezone,
				SummaryAt: domain.DefaultSummaryAt,
			}, nil
		}
		return domain.UserProfile{}, fmt.Errorf("users: get %d: %w", userID, err)
	}
	return profile, nil
}

// All returns every known profile, used by the daily-summary scheduler.
func (u *Users) All(ctx context.Context) ([]domain.UserProfile, error) {
	profiles, err := u.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: list all: %w", err)
	}
	return profiles, nil
}

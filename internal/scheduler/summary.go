package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/avelichko/foliobot/internal/notify"
	"github.com/avelichko/foliobot/internal/service"
)

// SummaryScheduler delivers each user's daily market summary at their
// configured local time. It checks once a minute which users are due and
// guards against double sends with a per-user last-sent date.
type SummaryScheduler struct {
	users    *service.Users
	market   *service.Market
	notifier *notify.Notifier
	logger   *slog.Logger

	// lastSent maps user ID to the local date (2006-01-02) of the last
	// delivered summary. Only the loop goroutine touches it.
	lastSent map[int64]string

	// now is swappable for tests.
	now func() time.Time
}

// NewSummaryScheduler creates a SummaryScheduler.
func NewSummaryScheduler(users *service.Users, market *service.Market, notifier *notify.Notifier, logger *slog.Logger) *SummaryScheduler {
	return &SummaryScheduler{
		users:    users,
		market:   market,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "summary")),
		lastSent: make(map[int64]string),
		now:      time.Now,
	}
}

// RunLoop ticks once a minute until the context is cancelled.
func (s *SummaryScheduler) RunLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("summary loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick finds users whose local clock matches their summary time and sends
// the daily summary. The summary text is generated at most once per tick and
// shared across recipients.
func (s *SummaryScheduler) tick(ctx context.Context) {
	profiles, err := s.users.All(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list users failed", slog.String("error", err.Error()))
		return
	}

	now := s.now().UTC()
	var summary string

	for _, p := range profiles {
		loc, err := time.LoadLocation(p.Timezone)
		if err != nil {
			// Stored timezones are validated on write; an unloadable one
			// falls back to UTC rather than losing the summary.
			s.logger.WarnContext(ctx, "bad stored timezone, using UTC",
				slog.Int64("user_id", p.UserID),
				slog.String("tz", p.Timezone),
			)
			loc = time.UTC
		}

		local := now.In(loc)
		if local.Format("15:04") != p.SummaryAt {
			continue
		}

		localDate := local.Format("2006-01-02")
		if s.lastSent[p.UserID] == localDate {
			continue
		}

		if summary == "" {
			summary, err = s.market.DailySummary(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "daily summary generation failed",
					slog.String("error", err.Error()),
				)
				return // retry next minute; lastSent untouched
			}
		}

		if err := s.notifier.NotifyUser(ctx, p.UserID, summary); err != nil {
			s.logger.ErrorContext(ctx, "summary delivery failed",
				slog.Int64("user_id", p.UserID),
				slog.String("error", err.Error()),
			)
			continue
		}

		s.lastSent[p.UserID] = localDate
		s.logger.InfoContext(ctx, "daily summary sent",
			slog.Int64("user_id", p.UserID),
			slog.String("local_date", localDate),
		)
	}
}

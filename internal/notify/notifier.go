// Package notify delivers messages to users over chat channels. Messages are
// addressed per user (the chat ID is the user ID) rather than broadcast to a
// fixed operator channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Sender is the interface each delivery channel must implement.
type Sender interface {
	// SendTo delivers a message to the chat identified by chatID.
	SendTo(ctx context.Context, chatID int64, text string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches per-user messages to one or more Senders. A single
// sender failure does not prevent delivery to the remaining senders.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that delivers to the given senders.
func NewNotifier(senders []Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// NotifyUser sends a message to one user on every channel. Errors from
// individual senders are collected and returned combined.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, text string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.SendTo(ctx, userID, text); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "message sent",
			slog.String("sender", s.Name()),
			slog.Int64("user_id", userID),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

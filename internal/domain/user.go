package domain

// UserProfile holds per-user settings. A profile is created on first
// interaction with defaults and mutated by settings commands; it shares only
// the user id with the ledger and alert entities.
type UserProfile struct {
	UserID    int64  `json:"user_id"`
	Timezone  string `json:"timezone"`   // IANA name, e.g. "Europe/London"
	SummaryAt string `json:"summary_at"` // local wall-clock "HH:MM", 24h
}

const (
	DefaultTimezone  = "UTC"
	DefaultSummaryAt = "09:00"
)

package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion indicates the compatibility / schema version for the JSONL meta+event structure.
// Increment this when breaking changes are made to field names/types.
// v2: Meta strongly typed (no generic map), money fields moved to decimal strings
const SchemaVersion = 2

// DefaultEventsFile centralizes the default JSONL event log filename so main and
// internal fallbacks remain consistent.
const DefaultEventsFile = "cumapp_events.jsonl"

// SeriesPoint is one (label, value) observation plotted on a chart. Label is
// either an ISO date (windowable series) or a plain category label (pie/bar
// breakdowns). Size is only consulted by scatter charts; zero means default.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Size  float64 `json:"size,omitempty"`
}

// TimeRange selects a trailing window of points relative to "now".
type TimeRange int

const (
	Range24h TimeRange = iota
	Range7d
	Range30d
	Range90d
	Range1y
)

var rangeNames = map[string]TimeRange{
	"24h": Range24h,
	"7d":  Range7d,
	"30d": Range30d,
	"90d": Range90d,
	"1y":  Range1y,
}

// ParseTimeRange parses a range token (24h|7d|30d|90d|1y). Unrecognized tokens
// return an error rather than silently defaulting.
func ParseTimeRange(s string) (TimeRange, error) {
	r, ok := rangeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Range7d, fmt.Errorf("unknown time range %q", s)
	}
	return r, nil
}

// Duration returns the trailing window length. 1y uses 365 days.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Range24h:
		return 24 * time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	case Range30d:
		return 30 * 24 * time.Hour
	case Range90d:
		return 90 * 24 * time.Hour
	case Range1y:
		return 365 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

func (r TimeRange) String() string {
	for name, v := range rangeNames {
		if v == r {
			return name
		}
	}
	return "7d"
}

// Meta describes one event log line. Mirrors the envelope written at collection
// time so later schema migrations can detect and upgrade old lines.
type Meta struct {
	SchemaVersion int    `json:"schema_version"`
	EventID       string `json:"event_id"`
	TimestampUTC  string `json:"timestamp_utc"`
	Hostname      string `json:"hostname,omitempty"`
}

// Event is one domain occurrence appended to the JSONL log. Exactly one of the
// detail fields is meaningful for a given Kind; the rest stay empty.
type Event struct {
	Kind      string `json:"kind"` // signup|login|message_sent|verification_started|verification_completed|verification_failed|number_purchased
	AccountID string `json:"account_id,omitempty"`
	// Verification detail
	VerificationID string  `json:"verification_id,omitempty"`
	VerifySeconds  float64 `json:"verify_seconds,omitempty"`
	// Purchase / billing detail (decimal serialized as string to avoid float drift)
	AmountUSD string `json:"amount_usd,omitempty"`
	// Login detail
	Country string `json:"country,omitempty"`
}

// Envelope is the JSONL line format: {"meta": {...}, "event": {...}}.
type Envelope struct {
	Meta  *Meta  `json:"meta"`
	Event *Event `json:"event"`
}

// Account is a registered user of the product.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	PlanID       string    `json:"plan_id,omitempty"`
}

// Session is a live bearer-token login.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	Country   string    `json:"country,omitempty"` // GeoIP of the login IP, best-effort
}

// PhoneNumber is one marketplace listing. Owned numbers carry the purchaser.
type PhoneNumber struct {
	ID           string          `json:"id"`
	E164         string          `json:"e164"`
	Country      string          `json:"country"` // ISO code, e.g. US
	Capabilities []string        `json:"capabilities,omitempty"`
	MonthlyUSD   decimal.Decimal `json:"monthly_usd"`
	OwnerID      string          `json:"owner_id,omitempty"`
}

// VerificationStatus enumerates the lifecycle of a verification request.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
	VerificationFailed    VerificationStatus = "failed"
	VerificationExpired   VerificationStatus = "expired"
)

// Verification is one SMS-code challenge.
type Verification struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"account_id"`
	Phone       string             `json:"phone"`
	Service     string             `json:"service,omitempty"` // e.g. whatsapp, telegram
	Code        string             `json:"-"`
	Status      VerificationStatus `json:"status"`
	Attempts    int                `json:"attempts"`
	MaxAttempts int                `json:"max_attempts"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
	CompletedAt time.Time          `json:"completed_at,omitzero"`
}

// Message is one chat message inside a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
}

// Conversation groups messages between an account and an external number.
type Conversation struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	PeerE164  string    `json:"peer_e164"`
	CreatedAt time.Time `json:"created_at"`
}

// Plan is one subscription tier.
type Plan struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	MonthlyUSD decimal.Decimal `json:"monthly_usd"`
	SMSQuota   int             `json:"sms_quota"`
}

// Invoice is one billed line item (plan charge or number purchase).
type Invoice struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Item      string          `json:"item"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	IssuedAt  time.Time       `json:"issued_at"`
}

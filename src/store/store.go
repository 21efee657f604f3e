// Package store holds the service's domain state: accounts, sessions, the
// number marketplace, verifications, chat and billing. State lives in memory
// under one RWMutex; every domain occurrence is also appended to the JSONL
// event log that analytics replays.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/security"
	"github.com/Infradevandops/cumapp/src/types"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrInvalidEmail    = errors.New("store: invalid email")
	ErrEmailTaken      = errors.New("store: email already registered")
	ErrBadCredentials  = errors.New("store: bad credentials")
	ErrWeakPassword    = errors.New("store: password too weak")
	ErrNumberTaken     = errors.New("store: number already owned")
	ErrNotOwner        = errors.New("store: not the owner")
	ErrVerifyExpired   = errors.New("store: verification expired")
	ErrVerifyExhausted = errors.New("store: verification attempts exhausted")
	ErrVerifyCompleted = errors.New("store: verification already completed")
	ErrCodeMismatch    = errors.New("store: code mismatch")
)

// MinPasswordScore gates registration; the signup meter shows the same scale.
const MinPasswordScore = 30

// Config tunes store behavior. Zero values take the documented defaults.
type Config struct {
	EventsFile  string
	CatalogFile string
	VerifyTTL   time.Duration // default 10m
	MaxAttempts int           // default 3
	GeoIP       bool          // enrich login audit with GeoLite2 country
	Clock       func() time.Time
}

func (c Config) withDefaults() Config {
	if c.VerifyTTL <= 0 {
		c.VerifyTTL = 10 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Store is the in-memory domain state plus its event log.
type Store struct {
	mu  sync.RWMutex
	cfg Config

	accounts      map[string]*types.Account // by ID
	byEmail       map[string]string         // email -> account ID
	sessions      map[string]*types.Session // by token
	numbers       map[string]*types.PhoneNumber
	verifications map[string]*types.Verification
	conversations map[string]*types.Conversation
	messages      map[string][]types.Message // by conversation ID
	plans         []types.Plan
	invoices      map[string][]types.Invoice // by account ID

	events *EventLog
}

// Open builds a store, seeding the marketplace from the catalog file (or the
// built-in defaults) and opening the event log.
func Open(cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()
	var numbers []types.PhoneNumber
	var plans []types.Plan
	if cfg.CatalogFile != "" {
		var err error
		numbers, plans, err = LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		logging.Infof("catalog: %d numbers, %d plans from %s", len(numbers), len(plans), cfg.CatalogFile)
	} else {
		numbers, plans = DefaultCatalog()
	}
	events, err := OpenEventLog(cfg.EventsFile)
	if err != nil {
		return nil, err
	}
	s := &Store{
		cfg:           cfg,
		accounts:      make(map[string]*types.Account),
		byEmail:       make(map[string]string),
		sessions:      make(map[string]*types.Session),
		numbers:       make(map[string]*types.PhoneNumber),
		verifications: make(map[string]*types.Verification),
		conversations: make(map[string]*types.Conversation),
		messages:      make(map[string][]types.Message),
		plans:         plans,
		invoices:      make(map[string][]types.Invoice),
		events:        events,
	}
	for i := range numbers {
		n := numbers[i]
		s.numbers[n.ID] = &n
	}
	return s, nil
}

// Close releases the event log.
func (s *Store) Close() error { return s.events.Close() }

// EventsFile exposes the configured log path (analytics reads it directly).
func (s *Store) EventsFile() string { return s.cfg.EventsFile }

func (s *Store) appendEvent(e types.Event) {
	if err := s.events.Append(e); err != nil {
		logging.Errorf("event log append (%s): %v", e.Kind, err)
	}
}

// Register creates an account. Passwords below MinPasswordScore are refused.
func (s *Store) Register(email, password string) (*types.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if security.ScorePassword(password) < MinPasswordScore {
		return nil, ErrWeakPassword
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return nil, ErrEmailTaken
	}
	acct := &types.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.cfg.Clock(),
	}
	s.accounts[acct.ID] = acct
	s.byEmail[email] = acct.ID
	s.appendEvent(types.Event{Kind: "signup", AccountID: acct.ID})
	return acct, nil
}

// Login verifies credentials and mints a session. remoteIP feeds the
// best-effort GeoIP country on the audit record.
func (s *Store) Login(email, password, remoteIP string) (*types.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	id, ok := s.byEmail[email]
	var hash string
	if ok {
		hash = s.accounts[id].PasswordHash
	}
	s.mu.RUnlock()
	if !ok || !security.VerifyPassword(hash, password) {
		return nil, ErrBadCredentials
	}
	token, err := security.NewToken()
	if err != nil {
		return nil, err
	}
	country := ""
	if s.cfg.GeoIP {
		if c, found := lookupGeoIPCountry(remoteIP); found {
			country = c
		}
	}
	sess := &types.Session{Token: token, AccountID: id, CreatedAt: s.cfg.Clock(), Country: country}
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	s.appendEvent(types.Event{Kind: "login", AccountID: id, Country: country})
	return sess, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Store) Authenticate(token string) (*types.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	acct, ok := s.accounts[sess.AccountID]
	return acct, ok
}

// ListNumbers returns marketplace listings, optionally filtered by country
// and availability, ordered by E.164 for stable pagination.
func (s *Store) ListNumbers(country string, availableOnly bool) []types.PhoneNumber {
	country = strings.ToUpper(strings.TrimSpace(country))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.PhoneNumber, 0, len(s.numbers))
	for _, n := range s.numbers {
		if country != "" && n.Country != country {
			continue
		}
		if availableOnly && n.OwnerID != "" {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].E164 < out[j].E164 })
	return out
}

// PurchaseNumber assigns a listing to the account and issues an invoice for
// the first month.
func (s *Store) PurchaseNumber(accountID, numberID string) (*types.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.numbers[numberID]
	if !ok {
		return nil, ErrNotFound
	}
	if n.OwnerID != "" {
		return nil, ErrNumberTaken
	}
	n.OwnerID = accountID
	inv := types.Invoice{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Item:      "number " + n.E164,
		AmountUSD: n.MonthlyUSD,
		IssuedAt:  s.cfg.Clock(),
	}
	s.invoices[accountID] = append(s.invoices[accountID], inv)
	s.appendEvent(types.Event{Kind: "number_purchased", AccountID: accountID, AmountUSD: n.MonthlyUSD.String()})
	return &inv, nil
}

// StartVerification issues a new SMS-code challenge.
func (s *Store) StartVerification(accountID, phone, service string) (*types.Verification, error) {
	code, err := security.NewVerificationCode()
	if err != nil {
		return nil, err
	}
	now := s.cfg.Clock()
	v := &types.Verification{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Phone:       phone,
		Service:     service,
		Code:        code,
		Status:      types.VerificationPending,
		MaxAttempts: s.cfg.MaxAttempts,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.VerifyTTL),
	}
	s.mu.Lock()
	s.verifications[v.ID] = v
	s.mu.Unlock()
	s.appendEvent(types.Event{Kind: "verification_started", AccountID: accountID, VerificationID: v.ID})
	return v, nil
}

// CheckVerification consumes one attempt. Expiry is evaluated lazily at check
// time; there is no background sweeper. Ownership is verified before any
// state changes so a foreign caller cannot burn the owner's attempts.
func (s *Store) CheckVerification(accountID, id, code string) (*types.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v.AccountID != accountID {
		return nil, ErrNotOwner
	}
	now := s.cfg.Clock()
	switch v.Status {
	case types.VerificationCompleted:
		return v, ErrVerifyCompleted
	case types.VerificationFailed, types.VerificationExpired:
		return v, ErrVerifyExhausted
	}
	if now.After(v.ExpiresAt) {
		v.Status = types.VerificationExpired
		s.appendEvent(types.Event{Kind: "verification_failed", AccountID: v.AccountID, VerificationID: v.ID})
		return v, ErrVerifyExpired
	}
	v.Attempts++
	if v.Code != code {
		if v.Attempts >= v.MaxAttempts {
			v.Status = types.VerificationFailed
			s.appendEvent(types.Event{Kind: "verification_failed", AccountID: v.AccountID, VerificationID: v.ID})
			return v, ErrVerifyExhausted
		}
		return v, ErrCodeMismatch
	}
	v.Status = types.VerificationCompleted
	v.CompletedAt = now
	s.appendEvent(types.Event{
		Kind:           "verification_completed",
		AccountID:      v.AccountID,
		VerificationID: v.ID,
		VerifySeconds:  now.Sub(v.CreatedAt).Seconds(),
	})
	return v, nil
}

// ListVerifications returns an account's verifications, newest first.
func (s *Store) ListVerifications(accountID string) []types.Verification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Verification, 0, 8)
	for _, v := range s.verifications {
		if v.AccountID == accountID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// StartConversation opens (or returns the existing) thread with a peer number.
func (s *Store) StartConversation(accountID, peerE164 string) *types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.AccountID == accountID && c.PeerE164 == peerE164 {
			return c
		}
	}
	c := &types.Conversation{
		ID:        uuid.NewString(),
		AccountID: accountID,
		PeerE164:  peerE164,
		CreatedAt: s.cfg.Clock(),
	}
	s.conversations[c.ID] = c
	return c
}

// ListConversations returns an account's threads, newest first.
func (s *Store) ListConversations(accountID string) []types.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Conversation, 0, 8)
	for _, c := range s.conversations {
		if c.AccountID == accountID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// AppendMessage adds a message to a conversation owned by the sender.
func (s *Store) AppendMessage(accountID, conversationID, body string) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.AccountID != accountID {
		return nil, ErrNotOwner
	}
	m := types.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       accountID,
		Body:           body,
		SentAt:         s.cfg.Clock(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], m)
	s.appendEvent(types.Event{Kind: "message_sent", AccountID: accountID})
	return &m, nil
}

// Messages returns a conversation's messages in send order.
func (s *Store) Messages(accountID, conversationID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.AccountID != accountID {
		return nil, ErrNotOwner
	}
	msgs := s.messages[conversationID]
	out := make([]types.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Plans lists subscription tiers.
func (s *Store) Plans() []types.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

// Invoices lists an account's invoices, newest first.
func (s *Store) Invoices(accountID string) []types.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.invoices[accountID]
	out := make([]types.Invoice, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out
}

// Package api exposes the product over HTTP: auth, the number marketplace,
// verifications, conversations, billing, search and the chart endpoints.
// Handlers are plain net/http on a ServeMux with method patterns.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/notify"
	"github.com/Infradevandops/cumapp/src/search"
	"github.com/Infradevandops/cumapp/src/store"
	"github.com/Infradevandops/cumapp/src/types"
)

// Server wires the store, search index and notification bus behind a mux.
type Server struct {
	store   *store.Store
	index   *search.Index
	bus     *notify.Bus
	mux     *http.ServeMux
	now     func() time.Time
	reindex *search.Debouncer
}

// New builds the HTTP surface over an opened store. The search index is
// seeded from the store's catalog and the static pages.
func New(st *store.Store, bus *notify.Bus) *Server {
	s := &Server{
		store:   st,
		index:   search.NewIndex(),
		bus:     bus,
		mux:     http.NewServeMux(),
		now:     time.Now,
		reindex: search.NewDebouncer(250 * time.Millisecond),
	}
	s.seedIndex()
	s.routes()
	return s
}

// scheduleReindex coalesces a burst of catalog mutations into one index
// rebuild after writes settle.
func (s *Server) scheduleReindex() {
	s.reindex.Trigger(context.Background(), func(context.Context) { s.seedIndex() })
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/auth/me", s.withAuth(s.handleMe))

	s.mux.HandleFunc("GET /api/numbers", s.handleListNumbers)
	s.mux.HandleFunc("POST /api/numbers/{id}/purchase", s.withAuth(s.handlePurchase))

	s.mux.HandleFunc("POST /api/verifications", s.withAuth(s.handleStartVerification))
	s.mux.HandleFunc("POST /api/verifications/{id}/check", s.withAuth(s.handleCheckVerification))
	s.mux.HandleFunc("GET /api/verifications", s.withAuth(s.handleListVerifications))

	s.mux.HandleFunc("POST /api/conversations", s.withAuth(s.handleStartConversation))
	s.mux.HandleFunc("GET /api/conversations", s.withAuth(s.handleListConversations))
	s.mux.HandleFunc("GET /api/conversations/{id}/messages", s.withAuth(s.handleMessages))
	s.mux.HandleFunc("POST /api/conversations/{id}/messages", s.withAuth(s.handleSendMessage))

	s.mux.HandleFunc("GET /api/billing/plans", s.handlePlans)
	s.mux.HandleFunc("GET /api/billing/invoices", s.withAuth(s.handleInvoices))

	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/notifications", s.withAuth(s.handleNotifications))
	s.mux.HandleFunc("GET /api/charts/{chart}", s.handleChart)
	s.mux.HandleFunc("GET /{$}", s.handleDashboard)
}

// ServeHTTP logs each request with its status and duration.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	logging.Infof("http %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withAuth resolves the bearer token into an account before calling next.
func (s *Server) withAuth(next func(http.ResponseWriter, *http.Request, *types.Account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		h := r.Header.Get("Authorization")
		if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		acct, ok := s.store.Authenticate(h[len(prefix):])
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r, acct)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("api: encode response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeStoreError maps the store's sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrNumberTaken),
		errors.Is(err, store.ErrVerifyCompleted):
		status = http.StatusConflict
	case errors.Is(err, store.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrWeakPassword), errors.Is(err, store.ErrInvalidEmail),
		errors.Is(err, store.ErrCodeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrVerifyExpired), errors.Is(err, store.ErrVerifyExhausted):
		status = http.StatusGone
	}
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return false
	}
	return true
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// seedIndex makes the catalog and the app's pages findable from the global
// search box.
func (s *Server) seedIndex() {
	pages := []search.Document{
		{ID: "page-dashboard", Category: "pages", Title: "Dashboard", Body: "usage charts signups logins revenue analytics", Weight: 1},
		{ID: "page-numbers", Category: "pages", Title: "Number marketplace", Body: "buy phone numbers sms voice", Weight: 1},
		{ID: "page-verifications", Category: "pages", Title: "Verifications", Body: "sms verification codes otp whatsapp telegram", Weight: 1},
		{ID: "page-conversations", Category: "pages", Title: "Conversations", Body: "chat messages threads", Weight: 1},
		{ID: "page-billing", Category: "pages", Title: "Billing", Body: "plans invoices subscription payment", Weight: 1},
	}
	for _, d := range pages {
		s.index.Put(d)
	}
	for _, n := range s.store.ListNumbers("", false) {
		avail := "available"
		if n.OwnerID != "" {
			avail = "owned"
		}
		s.index.Put(search.Document{
			ID:       "number-" + n.ID,
			Category: "numbers",
			Title:    n.E164,
			Body:     n.Country + " " + avail + " " + fmt.Sprint(n.Capabilities),
		})
	}
	for _, p := range s.store.Plans() {
		s.index.Put(search.Document{
			ID:       "plan-" + p.ID,
			Category: "billing",
			Title:    p.Name + " plan",
			Body:     fmt.Sprintf("%s USD per month, %d sms", p.MonthlyUSD, p.SMSQuota),
		})
	}
}

func (s *Server) notifyf(level notify.Level, title, format string, args ...any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(notify.Notification{Level: level, Title: title, Message: fmt.Sprintf(format, args...)})
}

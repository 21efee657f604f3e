package api

import (
	"net/http"
	"strconv"

	"github.com/Infradevandops/cumapp/src/notify"
	"github.com/Infradevandops/cumapp/src/search"
	"github.com/Infradevandops/cumapp/src/security"
	"github.com/Infradevandops/cumapp/src/types"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Account          *types.Account    `json:"account"`
	PasswordStrength security.Strength `json:"password_strength"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	acct, err := s.store.Register(req.Email, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifyf(notify.LevelSuccess, "Welcome", "account %s registered", acct.Email)
	writeJSON(w, http.StatusCreated, registerResponse{
		Account:          acct,
		PasswordStrength: security.StrengthFor(security.ScorePassword(req.Password)),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.store.Login(req.Email, req.Password, remoteIP(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) handleListNumbers(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	availableOnly := r.URL.Query().Get("available") == "true"
	writeJSON(w, http.StatusOK, s.store.ListNumbers(country, availableOnly))
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	inv, err := s.store.PurchaseNumber(acct.ID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifyf(notify.LevelSuccess, "Number purchased", "%s billed %s USD", inv.Item, inv.AmountUSD)
	s.scheduleReindex()
	writeJSON(w, http.StatusCreated, inv)
}

type startVerificationRequest struct {
	Phone   string `json:"phone"`
	Service string `json:"service"`
}

// startVerificationResponse carries the code in the clear. No SMS provider is
// attached, so the caller plays both sides of the challenge.
type startVerificationResponse struct {
	Verification *types.Verification `json:"verification"`
	Code         string              `json:"code"`
}

func (s *Server) handleStartVerification(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	var req startVerificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}
	v, err := s.store.StartVerification(acct.ID, req.Phone, req.Service)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startVerificationResponse{Verification: v, Code: v.Code})
}

type checkVerificationRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleCheckVerification(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	var req checkVerificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.store.CheckVerification(acct.ID, r.PathValue("id"), req.Code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifyf(notify.LevelSuccess, "Verified", "%s confirmed for %s", v.Phone, v.Service)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleListVerifications(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	writeJSON(w, http.StatusOK, s.store.ListVerifications(acct.ID))
}

type startConversationRequest struct {
	PeerE164 string `json:"peer_e164"`
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	var req startConversationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PeerE164 == "" {
		writeError(w, http.StatusBadRequest, "peer_e164 is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.StartConversation(acct.ID, req.PeerE164))
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	writeJSON(w, http.StatusOK, s.store.ListConversations(acct.ID))
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	msgs, err := s.store.Messages(acct.ID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}
	msg, err := s.store.AppendMessage(acct.ID, r.PathValue("id"), req.Body)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Plans())
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	writeJSON(w, http.StatusOK, s.store.Invoices(acct.ID))
}

type searchResponse struct {
	Query   string                     `json:"query"`
	Results []search.Result            `json:"results"`
	Grouped map[string][]search.Result `json:"grouped"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	results := s.index.Query(q, limit)
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Results: results, Grouped: search.Grouped(results)})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request, acct *types.Account) {
	if s.bus == nil {
		writeJSON(w, http.StatusOK, []notify.Notification{})
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.bus.Recent(limit))
}

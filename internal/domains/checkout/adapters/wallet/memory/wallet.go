// Package memory keeps wallet sessions in process, for development and tests.
package memory

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var (
	_ ports.Wallet   = (*Wallet)(nil)
	_ ports.Sessions = (*Wallet)(nil)
)

type session struct {
	address    string
	modalOpens int
	declining  bool
	sent       []domain.TransactionRequest
}

// Wallet is an in-memory wallet-connect double.
type Wallet struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewWallet() *Wallet {
	return &Wallet{sessions: make(map[string]*session), now: time.Now}
}

func (w *Wallet) get(owner string) *session {
	s, ok := w.sessions[owner]
	if !ok {
		s = &session{}
		w.sessions[owner] = s
	}
	return s
}

func (w *Wallet) Register(_ context.Context, owner, address string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.get(owner).address = strings.TrimSpace(address)
	return nil
}

func (w *Wallet) Forget(_ context.Context, owner string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.get(owner).address = ""
	return nil
}

func (w *Wallet) Connected(_ context.Context, owner string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.get(owner).address != "", nil
}

func (w *Wallet) OpenModal(_ context.Context, owner string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.get(owner).modalOpens++
	return nil
}

// Decline makes the owner's wallet reject every following transaction.
func (w *Wallet) Decline(owner string, declining bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.get(owner).declining = declining
}

func (w *Wallet) SendTransaction(_ context.Context, owner string, req domain.TransactionRequest) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.get(owner)
	switch {
	case s.address == "":
		return "", ports.ErrWalletUnavailable
	case s.declining:
		return "", ports.ErrTransactionRejected
	case req.ValidUntil > 0 && w.now().Unix() > req.ValidUntil:
		return "", ports.ErrTransactionRejected
	}
	s.sent = append(s.sent, req)
	return base64.StdEncoding.EncodeToString([]byte(req.ID)), nil
}

// Sent lists the transactions the owner's wallet accepted.
func (w *Wallet) Sent(owner string) []domain.TransactionRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.TransactionRequest(nil), w.get(owner).sent...)
}

// ModalOpens counts how often the connect modal was requested for owner.
func (w *Wallet) ModalOpens(owner string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.get(owner).modalOpens
}

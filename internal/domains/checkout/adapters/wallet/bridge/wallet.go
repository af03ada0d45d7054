// Package bridge talks to a wallet-connect relay over HTTP so that the API
// and the checkout worker see the same wallet sessions.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var (
	_ ports.Wallet   = (*Wallet)(nil)
	_ ports.Sessions = (*Wallet)(nil)
)

type sessionPayload struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
}

type sentPayload struct {
	BOC string `json:"boc"`
}

// Wallet implements the wallet port against the relay's session endpoints.
type Wallet struct {
	client *envelope.Client
}

func NewWallet(client *envelope.Client) *Wallet {
	return &Wallet{client: client}
}

func sessionPath(owner string, rest ...string) string {
	p := "sessions/" + url.PathEscape(owner)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (w *Wallet) Connected(ctx context.Context, owner string) (bool, error) {
	s, err := envelope.Get[sessionPayload](ctx, w.client, sessionPath(owner))
	if err != nil {
		return false, translate(err)
	}
	return s.Connected, nil
}

func (w *Wallet) OpenModal(ctx context.Context, owner string) error {
	_, err := envelope.Post[sessionPayload](ctx, w.client, sessionPath(owner, "modal"), struct{}{})
	return translate(err)
}

func (w *Wallet) SendTransaction(ctx context.Context, owner string, req domain.TransactionRequest) (string, error) {
	sent, err := envelope.Post[sentPayload](ctx, w.client, sessionPath(owner, "transactions"), req)
	if err != nil {
		return "", translate(err)
	}
	return sent.BOC, nil
}

func (w *Wallet) Register(ctx context.Context, owner, address string) error {
	_, err := envelope.Post[sessionPayload](ctx, w.client, sessionPath(owner), sessionPayload{Connected: true, Address: address})
	return translate(err)
}

func (w *Wallet) Forget(ctx context.Context, owner string) error {
	_, err := envelope.Post[sessionPayload](ctx, w.client, sessionPath(owner, "disconnect"), struct{}{})
	return translate(err)
}

// translate maps relay failures onto the checkout port errors: a relay that
// cannot be reached, or reports no session, means the wallet is unavailable;
// any other reported failure is a rejection.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *envelope.APIError
	switch {
	case errors.As(err, &apiErr) && (apiErr.Code == http.StatusConflict || apiErr.Code == http.StatusNotFound):
		return fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %w", ports.ErrTransactionRejected, err)
	default:
		return fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
	}
}

package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// NanotonDecimals is the number of decimal places of one TON.
const NanotonDecimals = 9

// DefaultValidFor bounds how long a wallet may take to sign a request.
const DefaultValidFor = 5 * time.Minute

var ErrMissingMerchant = errors.New("merchant address is required")

// Message is one transfer inside a wallet transaction request.
type Message struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Payload string `json:"payload,omitempty"`
}

// TransactionRequest is handed to the wallet as a whole; it either
// succeeds or fails, there is no partial success.
type TransactionRequest struct {
	ID         string    `json:"id"`
	ValidUntil int64     `json:"validUntil"`
	Messages   []Message `json:"messages"`
}

// ToNanotons converts a TON amount to integer nanotons, dropping any
// precision below one nanoton.
func ToNanotons(amount decimal.Decimal) string {
	return amount.Shift(NanotonDecimals).Truncate(0).String()
}

// NewTransactionRequest builds the single-message request paying for order.
func NewTransactionRequest(order *Order, merchant string, now time.Time, validFor time.Duration) (TransactionRequest, error) {
	if merchant == "" {
		return TransactionRequest{}, ErrMissingMerchant
	}
	if err := order.Validate(); err != nil {
		return TransactionRequest{}, err
	}
	if validFor <= 0 {
		validFor = DefaultValidFor
	}
	return TransactionRequest{
		ID:         order.ID,
		ValidUntil: now.Add(validFor).Unix(),
		Messages: []Message{{
			Address: merchant,
			Amount:  ToNanotons(order.Total()),
			Payload: order.Comment(),
		}},
	}, nil
}

package mapper

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// Wallet reports whether the owner has a connected wallet.
type Wallet struct {
	Connected bool `json:"connected"`
}

// RegisterWallet is the body a client sends once its wallet connected.
type RegisterWallet struct {
	Address string `json:"address" binding:"required"`
}

// BuyNow optionally overrides the purchased quantity.
type BuyNow struct {
	Qty int `json:"qty"`
}

// Receipt is the response to a successful checkout.
type Receipt struct {
	OrderID     string `json:"orderId"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	Amount      string `json:"amount"`
	Comment     string `json:"comment"`
	BOC         string `json:"boc,omitempty"`
	Recorded    bool   `json:"historyRecorded"`
	CartCleared bool   `json:"cartCleared"`
}

// FromReceipt renders a receipt; amount is in nanotons.
func FromReceipt(r ports.Receipt) Receipt {
	out := Receipt{
		OrderID:     r.Order.ID,
		Kind:        string(r.Order.Kind),
		Status:      string(r.Order.Status),
		Total:       r.Order.Total().String(),
		Currency:    r.Order.Currency(),
		BOC:         r.Submission.BOC,
		Recorded:    r.Recorded,
		CartCleared: r.CartCleared,
	}
	if len(r.Request.Messages) > 0 {
		out.Amount = r.Request.Messages[0].Amount
		out.Comment = r.Request.Messages[0].Payload
	}
	return out
}

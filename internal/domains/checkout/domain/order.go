package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSent     Status = "sent"
	StatusRejected Status = "rejected"
)

// Kind tells a single-product purchase from a whole-cart checkout.
type Kind string

const (
	KindBuyNow Kind = "buy_now"
	KindCart   Kind = "cart"
)

var (
	ErrEmptyOrder      = errors.New("order has no lines")
	ErrInvalidProduct  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrMixedCurrency   = errors.New("order lines use different currencies")
	ErrInvalidKind     = errors.New("order kind is invalid")
)

// OrderLine is one product being paid for.
type OrderLine struct {
	ProductID int64
	Name      string
	Category  string
	Price     decimal.Decimal
	Currency  string
	Qty       int
}

// Subtotal is price times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Label reads "<category> <name> x<qty>".
func (l OrderLine) Label() string {
	title := strings.TrimSpace(strings.TrimSpace(l.Category) + " " + strings.TrimSpace(l.Name))
	if title == "" {
		title = fmt.Sprintf("#%d", l.ProductID)
	}
	return fmt.Sprintf("%s x%d", title, l.Qty)
}

// Order models a checkout attempt.
type Order struct {
	ID        string
	Owner     string
	Kind      Kind
	Lines     []OrderLine
	Status    Status
	CreatedAt time.Time
}

// NewOrder validates and constructs a pending order.
func NewOrder(id, owner string, kind Kind, lines []OrderLine, now time.Time) (*Order, error) {
	order := &Order{
		ID:        id,
		Owner:     owner,
		Kind:      kind,
		Lines:     append([]OrderLine(nil), lines...),
		Status:    StatusPending,
		CreatedAt: now,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Kind != KindBuyNow && o.Kind != KindCart {
		return ErrInvalidKind
	}
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}
	currency := o.Lines[0].Currency
	for _, l := range o.Lines {
		switch {
		case l.ProductID <= 0:
			return ErrInvalidProduct
		case l.Qty <= 0:
			return ErrInvalidQuantity
		case l.Price.IsNegative():
			return ErrNegativePrice
		case l.Currency != currency:
			return ErrMixedCurrency
		}
	}
	return nil
}

// Total sums the line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (o *Order) Currency() string {
	if len(o.Lines) == 0 {
		return ""
	}
	return o.Lines[0].Currency
}

// Comment is the human-readable transaction description: one line label
// for a single product, an itemized summary for a cart.
func (o *Order) Comment() string {
	if o.Kind == KindBuyNow && len(o.Lines) == 1 {
		return o.Lines[0].Label()
	}
	labels := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		labels = append(labels, l.Label())
	}
	return "Cart: " + strings.Join(labels, ", ")
}

// MarkSent records a successful wallet submission.
func (o *Order) MarkSent() {
	o.Status = StatusSent
}

// MarkRejected records a declined or failed submission.
func (o *Order) MarkRejected() {
	o.Status = StatusRejected
}

package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingTimestamp = errors.New("purchase timestamp is required")
	ErrMissingProduct   = errors.New("purchase product id is required")
	ErrNegativeTotal    = errors.New("purchase total must not be negative")
)

// Key identifies a purchase. Two purchases completing in the same
// millisecond for different products stay distinct.
type Key struct {
	Timestamp int64
	ProductID int64
}

// Purchase is one completed order line. Timestamp is unix milliseconds.
type Purchase struct {
	Timestamp int64
	ProductID int64
	Total     decimal.Decimal
	Currency  string
}

// NewPurchase validates and builds a purchase record.
func NewPurchase(at time.Time, productID int64, total decimal.Decimal, currency string) (Purchase, error) {
	p := Purchase{Timestamp: at.UnixMilli(), ProductID: productID, Total: total, Currency: currency}
	return p, p.Validate()
}

// Validate checks the fields a locally recorded purchase must carry.
func (p Purchase) Validate() error {
	switch {
	case p.Timestamp <= 0:
		return ErrMissingTimestamp
	case p.ProductID == 0:
		return ErrMissingProduct
	case p.Total.IsNegative():
		return ErrNegativeTotal
	}
	return nil
}

func (p Purchase) Key() Key {
	return Key{Timestamp: p.Timestamp, ProductID: p.ProductID}
}

// Time converts the millisecond timestamp.
func (p Purchase) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

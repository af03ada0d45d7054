package domain

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/shared/memo"
)

// Selectors derives totals from a cart, recomputing only when the cart revision changes.
type Selectors struct {
	total  *memo.Selector[Cart, decimal.Decimal]
	count  *memo.Selector[Cart, int]
	inCart *memo.Family[int64, Cart, bool]
}

func revision(c Cart) uint64 { return c.Revision() }

// NewSelectors builds one memoized selector set. Use one set per cart owner.
func NewSelectors() *Selectors {
	return &Selectors{
		total: memo.New(revision, cartTotal),
		count: memo.New(revision, cartCount),
		inCart: memo.NewFamily(func(id int64) *memo.Selector[Cart, bool] {
			return memo.New(revision, func(c Cart) bool { return c.Has(id) })
		}),
	}
}

// Total is the sum of price times quantity over all lines.
func (s *Selectors) Total(c Cart) decimal.Decimal {
	return s.total.Select(c)
}

// Count is the sum of quantities.
func (s *Selectors) Count(c Cart) int {
	return s.count.Select(c)
}

func (s *Selectors) IsInCart(c Cart, id int64) bool {
	return s.inCart.For(id).Select(c)
}

func (s *Selectors) TotalRecomputations() int {
	return s.total.Recomputations()
}

func cartTotal(c Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines() {
		total = total.Add(line.Subtotal())
	}
	return total
}

func cartCount(c Cart) int {
	count := 0
	for _, line := range c.Lines() {
		count += line.Qty
	}
	return count
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

type ownerCart struct {
	mu        sync.Mutex
	cart      domain.Cart
	selectors *domain.Selectors
	hydrated  bool
}

// Service keeps one cart per owner. The persisted snapshot is read once, on
// the owner's first access; afterwards every mutation only marks it dirty.
type Service struct {
	catalogue   ports.Catalogue
	persistence ports.Persistence
	logger      *slog.Logger
	owners      sync.Map
}

// NewService wires the cart service. persistence may be nil.
func NewService(catalogue ports.Catalogue, persistence ports.Persistence) *Service {
	return &Service{catalogue: catalogue, persistence: persistence, logger: slog.Default()}
}

// WithLogger overrides the logger used for rehydration failures.
func (s *Service) WithLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Service) owner(owner string) *ownerCart {
	if c, ok := s.owners.Load(owner); ok {
		return c.(*ownerCart)
	}
	c, _ := s.owners.LoadOrStore(owner, &ownerCart{selectors: domain.NewSelectors()})
	return c.(*ownerCart)
}

// lock returns the owner's cart locked and hydrated. While the stored cart
// cannot be read the owner stays unhydrated and the call fails, so nothing is
// ever committed over state that was not loaded.
func (s *Service) lock(ctx context.Context, owner string) (*ownerCart, error) {
	c := s.owner(owner)
	c.mu.Lock()
	if c.hydrated || s.persistence == nil {
		c.hydrated = true
		return c, nil
	}
	snap, ok, err := s.persistence.Load(ctx, owner)
	if err != nil {
		c.mu.Unlock()
		s.logger.WarnContext(ctx, "cart rehydration failed", slog.String("owner", owner), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ports.ErrCartUnavailable, err)
	}
	if ok {
		c.cart = domain.FromSnapshot(snap)
	}
	c.hydrated = true
	return c, nil
}

func (s *Service) view(c *ownerCart) ports.View {
	lines := c.cart.Lines()
	currency := ""
	if len(lines) > 0 {
		currency = lines[0].Currency
	}
	return ports.View{
		Lines:    lines,
		Total:    c.selectors.Total(c.cart),
		Count:    c.selectors.Count(c.cart),
		Distinct: c.cart.Distinct(),
		Currency: currency,
	}
}

func (s *Service) commit(c *ownerCart, owner string, next domain.Cart) ports.View {
	if next.Revision() != c.cart.Revision() {
		c.cart = next
		if s.persistence != nil {
			s.persistence.MarkDirty(owner)
		}
	}
	return s.view(c)
}

func (s *Service) Get(ctx context.Context, owner string) (ports.View, error) {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return ports.View{}, err
	}
	defer c.mu.Unlock()
	return s.view(c), nil
}

// AddItem copies the product's current catalogue fields into a new line, or
// increments the existing line.
func (s *Service) AddItem(ctx context.Context, owner string, productID int64) (ports.View, error) {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return ports.View{}, err
	}
	defer c.mu.Unlock()

	var product domain.Product
	if line, ok := c.cart.Line(productID); ok {
		product = domain.Product{ID: line.ProductID}
	} else {
		p, err := s.catalogue.Product(ctx, productID)
		if err != nil {
			return s.view(c), err
		}
		product = p
	}
	next, err := c.cart.AddItem(product)
	if err != nil {
		return s.view(c), mapError(err)
	}
	return s.commit(c, owner, next), nil
}

func (s *Service) ChangeQty(ctx context.Context, owner string, productID int64, delta int) (ports.View, error) {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return ports.View{}, err
	}
	defer c.mu.Unlock()

	next, err := c.cart.ChangeQty(productID, delta)
	if err != nil {
		return s.view(c), mapError(err)
	}
	return s.commit(c, owner, next), nil
}

func (s *Service) RemoveItem(ctx context.Context, owner string, productID int64) (ports.View, error) {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return ports.View{}, err
	}
	defer c.mu.Unlock()
	return s.commit(c, owner, c.cart.RemoveItem(productID)), nil
}

func (s *Service) Clear(ctx context.Context, owner string) (ports.View, error) {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return ports.View{}, err
	}
	defer c.mu.Unlock()
	return s.commit(c, owner, c.cart.Clear()), nil
}

func (s *Service) IsInCart(ctx context.Context, owner string, productID int64) bool {
	c, err := s.lock(ctx, owner)
	if err != nil {
		return false
	}
	defer c.mu.Unlock()
	return c.selectors.IsInCart(c.cart, productID)
}

// Snapshot exports an owner's cart for write-back. Owners never touched in
// this process report false.
func (s *Service) Snapshot(owner string) (any, bool) {
	v, ok := s.owners.Load(owner)
	if !ok {
		return nil, false
	}
	c := v.(*ownerCart)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hydrated {
		return nil, false
	}
	return c.cart.Snapshot(), true
}

var _ ports.Service = (*Service)(nil)

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultConnectTimeout = 30 * time.Second
)

// Config carries the merchant address and the wallet timing knobs.
type Config struct {
	Merchant       string
	PollInterval   time.Duration
	ConnectTimeout time.Duration
	ValidFor       time.Duration
}

// Dependencies groups the collaborators of the checkout service.
// Workflows may be nil, in which case the wallet is called directly.
type Dependencies struct {
	Wallet    ports.Wallet
	Products  ports.Products
	Cart      ports.Cart
	History   ports.History
	Workflows ports.WorkflowOrchestrator
}

// Service pays for a single product or a whole cart through the wallet.
type Service struct {
	cfg  Config
	deps Dependencies

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how order ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the checkout service.
func NewService(cfg Config, deps Dependencies, opts ...Option) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.ValidFor <= 0 {
		cfg.ValidFor = domain.DefaultValidFor
	}
	s := &Service{
		cfg:    cfg,
		deps:   deps,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) WalletConnected(ctx context.Context, owner string) (bool, error) {
	ok, err := s.deps.Wallet.Connected(ctx, owner)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
	}
	return ok, nil
}

func (s *Service) Connect(ctx context.Context, owner string) (bool, error) {
	if ok, err := s.WalletConnected(ctx, owner); err != nil || ok {
		return ok, err
	}
	if err := s.deps.Wallet.OpenModal(ctx, owner); err != nil {
		return false, fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
	}
	return s.WaitForConnection(ctx, owner), nil
}

// WaitForConnection polls the wallet until it reports connected. It
// resolves false once the connect timeout elapses or ctx is done.
func (s *Service) WaitForConnection(ctx context.Context, owner string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if ok, err := s.deps.Wallet.Connected(ctx, owner); err == nil && ok {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// BuyNow pays for qty units of one product. The cart is left untouched.
// A qty of zero means one unit.
func (s *Service) BuyNow(ctx context.Context, owner string, productID int64, qty int) (ports.Receipt, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return ports.Receipt{}, mapError(domain.ErrInvalidQuantity)
	}
	if productID <= 0 {
		return ports.Receipt{}, mapError(domain.ErrInvalidProduct)
	}
	line, err := s.deps.Products.Line(ctx, productID, qty)
	if err != nil {
		return ports.Receipt{}, err
	}
	return s.place(ctx, owner, domain.KindBuyNow, []domain.OrderLine{line})
}

// CheckoutCart pays for every cart line in one transaction, then clears the cart.
func (s *Service) CheckoutCart(ctx context.Context, owner string) (ports.Receipt, error) {
	lines, err := s.deps.Cart.Lines(ctx, owner)
	if err != nil {
		return ports.Receipt{}, err
	}
	return s.place(ctx, owner, domain.KindCart, lines)
}

func (s *Service) place(ctx context.Context, owner string, kind domain.Kind, lines []domain.OrderLine) (ports.Receipt, error) {
	now := s.now()
	order, err := domain.NewOrder(s.newID(), owner, kind, lines, now)
	if err != nil {
		return ports.Receipt{}, mapError(err)
	}
	req, err := domain.NewTransactionRequest(order, s.cfg.Merchant, now, s.cfg.ValidFor)
	if err != nil {
		return ports.Receipt{}, mapError(err)
	}
	if err := s.ensureConnected(ctx, owner); err != nil {
		return ports.Receipt{Order: *order, Request: req}, err
	}

	submission, err := s.submit(ctx, ports.SubmitInput{Owner: owner, Request: req})
	if err != nil {
		order.MarkRejected()
		receipt := ports.Receipt{Order: *order, Request: req}
		if errors.Is(err, ports.ErrWalletUnavailable) || errors.Is(err, ports.ErrTransactionRejected) {
			return receipt, err
		}
		return receipt, fmt.Errorf("%w: %w", ports.ErrTransactionRejected, err)
	}
	order.MarkSent()
	receipt := ports.Receipt{Order: *order, Request: req, Submission: submission}

	recorded, err := s.deps.History.Record(ctx, owner, s.now(), order.Lines)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record purchase in history",
			slog.String("owner", owner), slog.String("orderId", order.ID), slog.String("error", err.Error()))
	}
	receipt.Recorded = recorded

	if kind == domain.KindCart {
		if err := s.deps.Cart.Clear(ctx, owner); err != nil {
			s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
				slog.String("owner", owner), slog.String("orderId", order.ID), slog.String("error", err.Error()))
		} else {
			receipt.CartCleared = true
		}
	}
	return receipt, nil
}

func (s *Service) ensureConnected(ctx context.Context, owner string) error {
	ok, err := s.Connect(ctx, owner)
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrWalletUnavailable
	}
	return nil
}

func (s *Service) submit(ctx context.Context, input ports.SubmitInput) (ports.Submission, error) {
	if s.deps.Workflows != nil {
		return s.deps.Workflows.Submit(ctx, input)
	}
	boc, err := s.deps.Wallet.SendTransaction(ctx, input.Owner, input.Request)
	if err != nil {
		return ports.Submission{}, err
	}
	return ports.Submission{RequestID: input.Request.ID, BOC: boc}, nil
}

var _ ports.Service = (*Service)(nil)

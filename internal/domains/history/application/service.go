package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

// ownerHistory is one owner's pair of cached queries plus which one is selected.
type ownerHistory struct {
	mu       sync.Mutex
	endpoint ports.Endpoint
	entries  map[ports.Endpoint]query.Result[domain.Cache]
	// exhausted is set once the empty endpoint failed after a fallback.
	exhausted bool
}

func newOwnerHistory() *ownerHistory {
	return &ownerHistory{
		endpoint: ports.EndpointNormal,
		entries:  map[ports.Endpoint]query.Result[domain.Cache]{},
	}
}

func (h *ownerHistory) viewLocked() ports.View {
	return ports.View{Endpoint: h.endpoint, Result: h.entries[h.endpoint]}
}

// Service caches purchase history per owner. A failed normal fetch switches
// the owner to the empty endpoint once; only Retry switches back.
type Service struct {
	source  ports.Source
	now     func() time.Time
	timeout time.Duration
	owners  sync.Map
}

// DefaultFetchTimeout bounds one history fetch.
const DefaultFetchTimeout = 15 * time.Second

// NewService wires the history service with its remote source.
func NewService(source ports.Source) *Service {
	return &Service{source: source, now: time.Now, timeout: DefaultFetchTimeout}
}

// WithFetchTimeout overrides how long one fetch may run.
func (s *Service) WithFetchTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Service) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) owner(owner string) *ownerHistory {
	if h, ok := s.owners.Load(owner); ok {
		return h.(*ownerHistory)
	}
	h, _ := s.owners.LoadOrStore(owner, newOwnerHistory())
	return h.(*ownerHistory)
}

// Load serves the selected query, fetching it when it has not succeeded yet.
func (s *Service) Load(ctx context.Context, owner string) (ports.View, error) {
	h := s.owner(owner)
	h.mu.Lock()
	defer h.mu.Unlock()
	return s.loadLocked(ctx, h)
}

func (s *Service) loadLocked(ctx context.Context, h *ownerHistory) (ports.View, error) {
	current := h.entries[h.endpoint]
	switch {
	case current.Status == query.StatusSuccess:
		return h.viewLocked(), nil
	case h.exhausted:
		return h.viewLocked(), current.Err
	}

	err := s.fetchLocked(ctx, h, h.endpoint)
	if err == nil {
		return h.viewLocked(), nil
	}
	if errors.Is(err, context.Canceled) {
		// Nobody asked for the answer anymore; that says nothing about the endpoint.
		return h.viewLocked(), err
	}
	if h.endpoint == ports.EndpointEmpty {
		// The normal endpoint already failed in an earlier Load.
		return s.exhaust(h, err)
	}

	normalErr := err
	h.endpoint = ports.EndpointEmpty
	if err := s.fetchLocked(ctx, h, ports.EndpointEmpty); err != nil {
		if errors.Is(err, context.Canceled) {
			return h.viewLocked(), err
		}
		return s.exhaust(h, errors.Join(normalErr, err))
	}
	return h.viewLocked(), nil
}

func (s *Service) exhaust(h *ownerHistory, cause error) (ports.View, error) {
	h.exhausted = true
	err := fmt.Errorf("%w: %w", ports.ErrHistoryUnavailable, cause)
	h.entries[h.endpoint] = h.entries[h.endpoint].Failed(err)
	return h.viewLocked(), err
}

// fetchLocked runs detached from the caller so a dropped request finishes the
// fetch instead of failing it. A cancellation that still surfaces leaves the
// entry as it was.
func (s *Service) fetchLocked(ctx context.Context, h *ownerHistory, endpoint ports.Endpoint) error {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	previous := h.entries[endpoint]
	h.entries[endpoint] = previous.Loading()
	fetch := s.source.FetchHistory
	if endpoint == ports.EndpointEmpty {
		fetch = s.source.FetchEmptyHistory
	}
	purchases, err := fetch(fetchCtx)
	switch {
	case errors.Is(err, context.Canceled):
		h.entries[endpoint] = previous
		return err
	case err != nil:
		h.entries[endpoint] = h.entries[endpoint].Failed(err)
		return err
	}
	h.entries[endpoint] = query.Succeeded(domain.Load(purchases), string(endpoint), s.now())
	return nil
}

// Retry goes back to the normal endpoint and refetches it.
func (s *Service) Retry(ctx context.Context, owner string) (ports.View, error) {
	h := s.owner(owner)
	h.mu.Lock()
	defer h.mu.Unlock()

	h.endpoint = ports.EndpointNormal
	h.exhausted = false
	entry := h.entries[ports.EndpointNormal]
	entry.Status = query.StatusIdle
	entry.Err = nil
	h.entries[ports.EndpointNormal] = entry
	return s.loadLocked(ctx, h)
}

// State returns the selected query without fetching.
func (s *Service) State(owner string) ports.View {
	h := s.owner(owner)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewLocked()
}

// AddPurchase patches the cached normal-history result in place of a refetch.
// It reports false when that result was never populated.
func (s *Service) AddPurchase(_ context.Context, owner string, purchase domain.Purchase) (bool, error) {
	if err := purchase.Validate(); err != nil {
		return false, mapError(err)
	}
	h := s.owner(owner)
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := h.entries[ports.EndpointNormal]
	if !entry.HasData() {
		return false, nil
	}
	h.entries[ports.EndpointNormal] = entry.Patched(domain.Insert(entry.Data, purchase))
	return true, nil
}

var _ ports.Service = (*Service)(nil)

package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

const sourceName = "items.json"

// DefaultFetchTimeout bounds one shared catalogue fetch.
const DefaultFetchTimeout = 15 * time.Second

// Service caches the remote catalogue and serves filtered views over it.
type Service struct {
	source  ports.Source
	now     func() time.Time
	timeout time.Duration

	flight singleflight.Group
	mu     sync.RWMutex
	result query.Result[domain.Cache]
}

// NewService wires the catalogue service with its remote source.
func NewService(source ports.Source) *Service {
	return &Service{
		source:  source,
		now:     time.Now,
		timeout: DefaultFetchTimeout,
		result:  query.Result[domain.Cache]{Status: query.StatusIdle},
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Service) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithFetchTimeout overrides how long a shared fetch may run.
func (s *Service) WithFetchTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Load fetches once; a cached success or an in-flight fetch is reused.
func (s *Service) Load(ctx context.Context) (query.Result[domain.Cache], error) {
	s.mu.RLock()
	current := s.result
	s.mu.RUnlock()
	if current.Status == query.StatusSuccess {
		return current, nil
	}
	if current.Status == query.StatusError {
		return current, current.Err
	}
	return s.fetch(ctx)
}

// Refetch always goes back to the remote source. Concurrent refetches share one request.
func (s *Service) Refetch(ctx context.Context) (query.Result[domain.Cache], error) {
	return s.fetch(ctx)
}

// fetch runs one shared request detached from the callers' contexts, so a
// caller that goes away neither aborts it nor leaves its cancellation cached
// as the catalogue's error. The caller only stops waiting.
func (s *Service) fetch(ctx context.Context) (query.Result[domain.Cache], error) {
	ch := s.flight.DoChan(sourceName, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		s.mu.Lock()
		previous := s.result
		s.result = s.result.Loading()
		s.mu.Unlock()

		items, err := s.source.FetchItems(fetchCtx)
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case errors.Is(err, context.Canceled):
			s.result = previous
			return s.result, err
		case err != nil:
			s.result = s.result.Failed(err)
			return s.result, s.result.Err
		}
		s.result = query.Succeeded(domain.Load(items), sourceName, s.now())
		return s.result, nil
	})
	select {
	case res := <-ch:
		result, _ := res.Val.(query.Result[domain.Cache])
		return result, res.Err
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// State returns the current cached result without fetching.
func (s *Service) State() query.Result[domain.Cache] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Search returns all loaded items whose "category name" contains q.
func (s *Service) Search(ctx context.Context, q string) ([]domain.Item, error) {
	result, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(result.Data.SelectAll(), q), nil
}

// Page reveals the first visible items of the filtered catalogue.
func (s *Service) Page(ctx context.Context, q string, visible int) (domain.Page, error) {
	items, err := s.Search(ctx, q)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Paginate(items, visible), nil
}

// ItemByID loads the catalogue if needed and resolves one item.
func (s *Service) ItemByID(ctx context.Context, id int64) (domain.Item, error) {
	if _, err := s.Load(ctx); err != nil {
		return domain.Item{}, err
	}
	item, ok := s.Lookup(id)
	if !ok {
		return domain.Item{}, ports.ErrNotFound
	}
	return item, nil
}

// Lookup resolves id against whatever is cached; it never fetches.
func (s *Service) Lookup(id int64) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Data.SelectByID(id)
}

var _ ports.Service = (*Service)(nil)

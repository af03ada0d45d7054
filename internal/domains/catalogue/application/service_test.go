package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

type fakeSource struct {
	items []domain.Item
	err   error
	calls atomic.Int32
}

func (f *fakeSource) FetchItems(context.Context) ([]domain.Item, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func sampleItems() []domain.Item {
	return []domain.Item{
		{ID: 3, Category: "Hoodie", Name: "Blue", Price: decimal.NewFromInt(20)},
		{ID: 1, Category: "Tee", Name: "Red", Price: decimal.NewFromInt(10)},
	}
}

func TestLoad_FetchesOnceAndCaches(t *testing.T) {
	src := &fakeSource{items: sampleItems()}
	svc := NewService(src)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	result, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, query.StatusSuccess, result.Status)
	require.Equal(t, fixed, result.Metadata.FetchedAt)
	require.Equal(t, []int64{1, 3}, result.Data.SelectIDs())

	_, err = svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), src.calls.Load())
}

func TestLoad_FailureKeepsErrorUntilRefetch(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{err: boom}
	svc := NewService(src)

	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, query.StatusError, svc.State().Status)

	_, err = svc.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(1), src.calls.Load())

	src.err = nil
	src.items = sampleItems()
	result, err := svc.Refetch(context.Background())
	require.NoError(t, err)
	require.Nil(t, result.Err)
	require.Equal(t, query.StatusSuccess, result.Status)
	require.Equal(t, int32(2), src.calls.Load())
}

func TestRefetch_FailureKeepsPreviousData(t *testing.T) {
	src := &fakeSource{items: sampleItems()}
	svc := NewService(src)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	src.err = errors.New("offline")
	result, err := svc.Refetch(context.Background())
	require.Error(t, err)
	require.Equal(t, query.StatusError, result.Status)
	require.Equal(t, 2, result.Data.SelectTotal())
}

func TestLoad_EmptyCatalogueIsNotAnError(t *testing.T) {
	svc := NewService(&fakeSource{items: []domain.Item{}})

	result, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, query.StatusSuccess, result.Status)
	require.Zero(t, result.Data.SelectTotal())
}

func TestPage_FiltersBeforeRevealing(t *testing.T) {
	svc := NewService(&fakeSource{items: sampleItems()})

	page, err := svc.Page(context.Background(), "red", 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, int64(1), page.Items[0].ID)
	require.Zero(t, page.Remaining)
}

func TestItemByID(t *testing.T) {
	svc := NewService(&fakeSource{items: sampleItems()})

	item, err := svc.ItemByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "Blue", item.Name)

	_, err = svc.ItemByID(context.Background(), 42)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLookup_NeverFetches(t *testing.T) {
	src := &fakeSource{items: sampleItems()}
	svc := NewService(src)

	_, ok := svc.Lookup(1)
	require.False(t, ok)
	require.Zero(t, src.calls.Load())
}

// ctxSource honours its context the way the HTTP source does.
type ctxSource struct {
	items []domain.Item
	block bool
}

func (c *ctxSource) FetchItems(ctx context.Context) ([]domain.Item, error) {
	if c.block {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.items, nil
}

func TestLoad_CancelledCallerLeavesCacheHealthy(t *testing.T) {
	svc := NewService(&ctxSource{items: sampleItems()})
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, _ = svc.Load(cancelled)

	items, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, query.StatusSuccess, svc.State().Status)
}

func TestLoad_SharedFetchTimesOut(t *testing.T) {
	svc := NewService(&ctxSource{block: true})
	svc.WithFetchTimeout(10 * time.Millisecond)

	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, query.StatusError, svc.State().Status)
}

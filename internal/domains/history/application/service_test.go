package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

type fakeSource struct {
	normal    []domain.Purchase
	normalErr error
	emptyErr  error
	calls     []ports.Endpoint
}

func (f *fakeSource) FetchHistory(context.Context) ([]domain.Purchase, error) {
	f.calls = append(f.calls, ports.EndpointNormal)
	if f.normalErr != nil {
		return nil, f.normalErr
	}
	return f.normal, nil
}

func (f *fakeSource) FetchEmptyHistory(context.Context) ([]domain.Purchase, error) {
	f.calls = append(f.calls, ports.EndpointEmpty)
	if f.emptyErr != nil {
		return nil, f.emptyErr
	}
	return []domain.Purchase{}, nil
}

func purchase(ts, product int64) domain.Purchase {
	return domain.Purchase{Timestamp: ts, ProductID: product, Total: decimal.NewFromInt(5), Currency: "TON"}
}

const owner = "42"

func TestLoad_NormalSuccessIsCached(t *testing.T) {
	src := &fakeSource{normal: []domain.Purchase{purchase(100, 1), purchase(300, 2)}}
	svc := NewService(src)

	view, err := svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, ports.EndpointNormal, view.Endpoint)
	require.Equal(t, query.StatusSuccess, view.Result.Status)
	require.Equal(t, int64(300), view.Result.Data.SelectAll()[0].Timestamp)

	_, err = svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, []ports.Endpoint{ports.EndpointNormal}, src.calls)
}

func TestLoad_FallsBackExactlyOnce(t *testing.T) {
	src := &fakeSource{normalErr: errors.New("offline")}
	svc := NewService(src)

	view, err := svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.True(t, view.FellBack())
	require.Equal(t, query.StatusSuccess, view.Result.Status)
	require.Zero(t, view.Result.Data.SelectTotal())

	for i := 0; i < 3; i++ {
		_, err = svc.Load(context.Background(), owner)
		require.NoError(t, err)
	}
	require.Equal(t, []ports.Endpoint{ports.EndpointNormal, ports.EndpointEmpty}, src.calls)
}

func TestLoad_TwoFailuresSurfaceHardError(t *testing.T) {
	normalErr := errors.New("normal down")
	emptyErr := errors.New("empty down")
	src := &fakeSource{normalErr: normalErr, emptyErr: emptyErr}
	svc := NewService(src)

	view, err := svc.Load(context.Background(), owner)
	require.ErrorIs(t, err, ports.ErrHistoryUnavailable)
	require.ErrorIs(t, err, normalErr)
	require.ErrorIs(t, err, emptyErr)
	require.Equal(t, query.StatusError, view.Result.Status)

	_, err = svc.Load(context.Background(), owner)
	require.ErrorIs(t, err, ports.ErrHistoryUnavailable)
	require.Len(t, src.calls, 2)
}

func TestRetry_ReturnsToNormalEndpoint(t *testing.T) {
	src := &fakeSource{normalErr: errors.New("offline"), emptyErr: errors.New("offline")}
	svc := NewService(src)
	_, err := svc.Load(context.Background(), owner)
	require.Error(t, err)

	src.normalErr = nil
	src.normal = []domain.Purchase{purchase(100, 1)}
	view, err := svc.Retry(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, ports.EndpointNormal, view.Endpoint)
	require.Nil(t, view.Result.Err)
	require.Equal(t, 1, view.Result.Data.SelectTotal())
	require.Equal(t, []ports.Endpoint{ports.EndpointNormal, ports.EndpointEmpty, ports.EndpointNormal}, src.calls)
}

func TestOwnersAreIsolated(t *testing.T) {
	src := &fakeSource{normal: []domain.Purchase{purchase(100, 1)}}
	svc := NewService(src)

	_, err := svc.Load(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, query.StatusIdle, svc.State("b").Result.Status)
}

func TestAddPurchase_PatchesNormalCacheInOrder(t *testing.T) {
	src := &fakeSource{normal: []domain.Purchase{purchase(100, 1), purchase(300, 2)}}
	svc := NewService(src)
	_, err := svc.Load(context.Background(), owner)
	require.NoError(t, err)

	ok, err := svc.AddPurchase(context.Background(), owner, purchase(200, 3))
	require.NoError(t, err)
	require.True(t, ok)

	all := svc.State(owner).Result.Data.SelectAll()
	require.Len(t, all, 3)
	require.Equal(t, []int64{300, 200, 100}, []int64{all[0].Timestamp, all[1].Timestamp, all[2].Timestamp})
	require.Len(t, src.calls, 1)
}

func TestAddPurchase_NoopBeforeFirstLoad(t *testing.T) {
	svc := NewService(&fakeSource{})

	ok, err := svc.AddPurchase(context.Background(), owner, purchase(100, 1))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAddPurchase_RejectsInvalidPurchase(t *testing.T) {
	svc := NewService(&fakeSource{})

	_, err := svc.AddPurchase(context.Background(), owner, domain.Purchase{ProductID: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoad_StampsFetchTime(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(&fakeSource{normal: []domain.Purchase{}})
	svc.WithClock(func() time.Time { return fixed })

	view, err := svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, fixed, view.Result.Metadata.FetchedAt)
	require.Equal(t, string(ports.EndpointNormal), view.Result.Metadata.Source)
}

// deadlineSource honours its context like the HTTP source.
type deadlineSource struct {
	fakeSource
	block bool
}

func (d *deadlineSource) FetchHistory(ctx context.Context) ([]domain.Purchase, error) {
	if d.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.fakeSource.FetchHistory(ctx)
}

func TestLoad_CancelledCallerDoesNotFallBack(t *testing.T) {
	src := &deadlineSource{fakeSource: fakeSource{normal: []domain.Purchase{purchase(100, 1)}}}
	svc := NewService(src)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	view, err := svc.Load(cancelled, owner)
	require.NoError(t, err)
	require.Equal(t, ports.EndpointNormal, view.Endpoint)
	require.Equal(t, 1, view.Result.Data.SelectTotal())
}

func TestLoad_CancellationIsNotAFailure(t *testing.T) {
	src := &fakeSource{normalErr: context.Canceled}
	svc := NewService(src)

	view, err := svc.Load(context.Background(), owner)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, ports.EndpointNormal, view.Endpoint)
	require.NotEqual(t, query.StatusError, view.Result.Status)
	require.Equal(t, []ports.Endpoint{ports.EndpointNormal}, src.calls)

	src.normalErr = nil
	src.normal = []domain.Purchase{purchase(100, 1)}
	view, err = svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, ports.EndpointNormal, view.Endpoint)
}

func TestLoad_TimeoutFallsBack(t *testing.T) {
	src := &deadlineSource{block: true}
	svc := NewService(src)
	svc.WithFetchTimeout(10 * time.Millisecond)

	view, err := svc.Load(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, ports.EndpointEmpty, view.Endpoint)
}

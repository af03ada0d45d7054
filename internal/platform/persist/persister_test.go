package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/memory"
)

type cartState struct {
	IDs      []int64          `json:"ids"`
	Entities map[string]int   `json:"entities"`
	Total    int              `json:"total"`
	User     *json.RawMessage `json:"user,omitempty"`
}

func TestFlush_WritesOnlyWhitelistedFields(t *testing.T) {
	kv := memory.NewKV()
	p := persist.NewPersister(kv)
	p.Register("cart", []string{"ids", "entities"}, func(owner string) (any, bool) {
		return cartState{IDs: []int64{1}, Entities: map[string]int{"1": 2}, Total: 99}, true
	})

	p.MarkDirty("cart", "42")
	require.Equal(t, 1, p.Pending())
	require.NoError(t, p.Flush(context.Background()))
	require.Zero(t, p.Pending())

	raw, ok, err := kv.Get(context.Background(), "persist:cart:42")
	require.NoError(t, err)
	require.True(t, ok)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "ids")
	require.Contains(t, doc, "entities")
	require.NotContains(t, doc, "total")
}

func TestMarkDirty_IgnoresUnregisteredSlices(t *testing.T) {
	kv := memory.NewKV()
	p := persist.NewPersister(kv)

	p.MarkDirty("history", "42")
	require.Zero(t, p.Pending())
	require.NoError(t, p.Flush(context.Background()))

	keys, err := kv.Keys(context.Background(), "persist:")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestFlush_DeletesWhenNothingToPersist(t *testing.T) {
	kv := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), "persist:theme:7", []byte(`{"mode":"dark"}`)))
	p := persist.NewPersister(kv)
	p.Register("theme", []string{"mode"}, func(string) (any, bool) { return nil, false })

	p.MarkDirty("theme", "7")
	require.NoError(t, p.Flush(context.Background()))

	_, ok, err := kv.Get(context.Background(), "persist:theme:7")
	require.NoError(t, err)
	require.False(t, ok)
}

type failingKV struct {
	*memory.KV
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, value)
}

func TestFlush_FailedKeysStayDirty(t *testing.T) {
	kv := &failingKV{KV: memory.NewKV(), fail: true}
	p := persist.NewPersister(kv)
	p.Register("theme", []string{"mode"}, func(string) (any, bool) {
		return map[string]string{"mode": "dark"}, true
	})

	p.MarkDirty("theme", "7")
	require.Error(t, p.Flush(context.Background()))
	require.Equal(t, 1, p.Pending())

	kv.fail = false
	require.NoError(t, p.Flush(context.Background()))
	require.Zero(t, p.Pending())
}

func TestRehydrate_LoadsOnceAndFilters(t *testing.T) {
	kv := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), "persist:theme:7", []byte(`{"mode":"dark","user":"leak"}`)))
	p := persist.NewPersister(kv)
	p.Register("theme", []string{"mode"}, func(string) (any, bool) { return nil, false })

	var got map[string]string
	ok, err := p.Rehydrate(context.Background(), "theme", "7", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[string]string{"mode": "dark"}, got)

	ok, err = p.Rehydrate(context.Background(), "theme", "7", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRehydrate_MissingKey(t *testing.T) {
	p := persist.NewPersister(memory.NewKV())
	p.Register("cart", []string{"ids", "entities"}, func(string) (any, bool) { return nil, false })

	var dst cartState
	ok, err := p.Rehydrate(context.Background(), "cart", "1", &dst)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRun_DrainsOnCancel(t *testing.T) {
	kv := memory.NewKV()
	p := persist.NewPersister(kv, persist.WithFlushInterval(time.Hour))
	p.Register("theme", []string{"mode"}, func(string) (any, bool) {
		return map[string]string{"mode": "light"}, true
	})
	p.MarkDirty("theme", "9")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, ok, err := kv.Get(context.Background(), "persist:theme:9")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSplitKey(t *testing.T) {
	slice, owner, ok := persist.SplitKey(persist.Key("cart", "42"))
	require.True(t, ok)
	require.Equal(t, "cart", slice)
	require.Equal(t, "42", owner)

	_, _, ok = persist.SplitKey("other:cart:1")
	require.False(t, ok)
}

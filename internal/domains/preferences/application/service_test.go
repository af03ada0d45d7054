package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/adapters/persistence"
	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/memory"
)

func TestTheme_DefaultsToSystem(t *testing.T) {
	svc := NewService(nil)

	theme, err := svc.Theme(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, domain.ModeSystem, theme.Mode)
}

func TestSetTheme_Validates(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.SetTheme(context.Background(), "1", "sepia")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	theme, err := svc.SetTheme(context.Background(), "1", " Dark ")
	require.NoError(t, err)
	require.Equal(t, domain.ModeDark, theme.Mode)
}

func TestSetTheme_PersistsAcrossRestart(t *testing.T) {
	kv := memory.NewKV()
	ctx := context.Background()

	p1 := persist.NewPersister(kv)
	var svc1 *Service
	svc1 = NewService(persistence.Bind(p1, func(o string) (any, bool) { return svc1.Snapshot(o) }))
	_, err := svc1.SetTheme(ctx, "7", "light")
	require.NoError(t, err)
	require.Equal(t, 1, p1.Pending())
	require.NoError(t, p1.Flush(ctx))

	raw, ok, err := kv.Get(ctx, persist.Key(persistence.Slice, "7"))
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"mode":"light"}`, string(raw))

	p2 := persist.NewPersister(kv)
	var svc2 *Service
	svc2 = NewService(persistence.Bind(p2, func(o string) (any, bool) { return svc2.Snapshot(o) }))
	theme, err := svc2.Theme(ctx, "7")
	require.NoError(t, err)
	require.Equal(t, domain.ModeLight, theme.Mode)
}

func TestSetTheme_SameModeIsNotDirty(t *testing.T) {
	p := persist.NewPersister(memory.NewKV())
	var svc *Service
	svc = NewService(persistence.Bind(p, func(o string) (any, bool) { return svc.Snapshot(o) }))

	_, err := svc.SetTheme(context.Background(), "7", "system")
	require.NoError(t, err)
	require.Zero(t, p.Pending())
}

type unreadableTheme struct {
	err   error
	theme domain.Theme
	dirty int
}

func (u *unreadableTheme) Load(context.Context, string) (domain.Theme, bool, error) {
	if u.err != nil {
		return domain.Theme{}, false, u.err
	}
	return u.theme, true, nil
}

func (u *unreadableTheme) MarkDirty(string) { u.dirty++ }

func TestSetTheme_ReadFailureDoesNotOverwrite(t *testing.T) {
	store := &unreadableTheme{err: errors.New("database is locked"), theme: domain.Theme{Mode: domain.ModeDark}}
	svc := NewService(store)

	_, err := svc.SetTheme(context.Background(), "7", "light")
	require.ErrorIs(t, err, ports.ErrPreferencesUnavailable)
	require.Zero(t, store.dirty)
	_, ok := svc.Snapshot("7")
	require.False(t, ok)

	store.err = nil
	theme, err := svc.Theme(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, domain.ModeDark, theme.Mode)
}

package persistence

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
)

// Slice is the persisted key segment for the theme preference.
const Slice = "theme"

// Fields keeps only the mode.
var Fields = []string{"mode"}

type Store struct {
	persister *persist.Persister
}

// Bind registers the theme slice with persister.
func Bind(persister *persist.Persister, source persist.SnapshotFunc) *Store {
	persister.Register(Slice, Fields, source)
	return &Store{persister: persister}
}

func (s *Store) Load(ctx context.Context, owner string) (domain.Theme, bool, error) {
	var theme domain.Theme
	ok, err := s.persister.Rehydrate(ctx, Slice, owner, &theme)
	return theme, ok, err
}

func (s *Store) MarkDirty(owner string) {
	s.persister.MarkDirty(Slice, owner)
}

var _ ports.Persistence = (*Store)(nil)

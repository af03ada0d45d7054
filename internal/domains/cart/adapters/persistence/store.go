package persistence

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
)

// Slice is the persisted key segment for carts.
const Slice = "cart"

// Fields is the cart whitelist: the id ordering and the id to line mapping.
var Fields = []string{"ids", "entities"}

// Store adapts the shared persister to the cart persistence port.
type Store struct {
	persister *persist.Persister
}

// Bind registers the cart slice with persister, reading snapshots from source.
func Bind(persister *persist.Persister, source persist.SnapshotFunc) *Store {
	persister.Register(Slice, Fields, source)
	return &Store{persister: persister}
}

func (s *Store) Load(ctx context.Context, owner string) (domain.Snapshot, bool, error) {
	var snap domain.Snapshot
	ok, err := s.persister.Rehydrate(ctx, Slice, owner, &snap)
	return snap, ok, err
}

func (s *Store) MarkDirty(owner string) {
	s.persister.MarkDirty(Slice, owner)
}

var _ ports.Persistence = (*Store)(nil)

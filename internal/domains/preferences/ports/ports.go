package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/domain"
)

// ErrPreferencesUnavailable is returned while the owner's stored theme cannot be read.
var ErrPreferencesUnavailable = errors.New("stored preferences unavailable")

// Persistence loads a stored theme once and is told when it changed.
type Persistence interface {
	Load(ctx context.Context, owner string) (domain.Theme, bool, error)
	MarkDirty(owner string)
}

type Service interface {
	Theme(ctx context.Context, owner string) (domain.Theme, error)
	SetTheme(ctx context.Context, owner string, mode string) (domain.Theme, error)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/preferences/ports"
)

// ErrInvalidInput signals an unsupported preference value.
var ErrInvalidInput = errors.New("invalid preference input")

type ownerTheme struct {
	theme    domain.Theme
	hydrated bool
}

// Service keeps theme preferences per owner.
type Service struct {
	persistence ports.Persistence
	logger      *slog.Logger

	mu     sync.Mutex
	owners map[string]*ownerTheme
}

// NewService wires the preferences service. persistence may be nil.
func NewService(persistence ports.Persistence) *Service {
	return &Service{persistence: persistence, logger: slog.Default(), owners: map[string]*ownerTheme{}}
}

// lockedOwner hydrates owner on first use. A failed read leaves the owner
// unhydrated so the stored theme is never overwritten by the default.
func (s *Service) lockedOwner(ctx context.Context, owner string) (*ownerTheme, error) {
	t, ok := s.owners[owner]
	if !ok {
		t = &ownerTheme{theme: domain.DefaultTheme()}
		s.owners[owner] = t
	}
	if t.hydrated || s.persistence == nil {
		t.hydrated = true
		return t, nil
	}
	stored, found, err := s.persistence.Load(ctx, owner)
	if err != nil {
		s.logger.WarnContext(ctx, "theme rehydration failed", slog.String("owner", owner), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ports.ErrPreferencesUnavailable, err)
	}
	if mode, err := domain.ParseMode(string(stored.Mode)); found && err == nil {
		t.theme = domain.Theme{Mode: mode}
	}
	t.hydrated = true
	return t, nil
}

func (s *Service) Theme(ctx context.Context, owner string) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.lockedOwner(ctx, owner)
	if err != nil {
		return domain.Theme{}, err
	}
	return t.theme, nil
}

func (s *Service) SetTheme(ctx context.Context, owner string, raw string) (domain.Theme, error) {
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return domain.Theme{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.lockedOwner(ctx, owner)
	if err != nil {
		return domain.Theme{}, err
	}
	if t.theme.Mode != mode {
		t.theme = domain.Theme{Mode: mode}
		if s.persistence != nil {
			s.persistence.MarkDirty(owner)
		}
	}
	return t.theme, nil
}

// Snapshot exports an owner's theme for write-back.
func (s *Service) Snapshot(owner string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.owners[owner]
	if !ok || !t.hydrated {
		return nil, false
	}
	return t.theme, true
}

var _ ports.Service = (*Service)(nil)

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// DefaultFlushInterval is how often dirty slices are written back.
const DefaultFlushInterval = time.Second

// SnapshotFunc exports the current state of slice for owner. It reports
// false when the owner has nothing to persist.
type SnapshotFunc func(owner string) (any, bool)

type rule struct {
	fields   map[string]struct{}
	snapshot SnapshotFunc
}

type dirtyKey struct {
	slice string
	owner string
}

// Persister writes registered slices on a flush tick. Only whitelisted
// top-level fields of a snapshot reach storage; unregistered slices are
// never written. It reads state through SnapshotFunc and never mutates it.
type Persister struct {
	kv       KV
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	rules      map[string]rule
	dirty      map[dirtyKey]struct{}
	rehydrated map[dirtyKey]struct{}
}

// Option customises a Persister.
type Option func(*Persister)

// WithFlushInterval overrides DefaultFlushInterval.
func WithFlushInterval(d time.Duration) Option {
	return func(p *Persister) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persister) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPersister builds a persister over kv.
func NewPersister(kv KV, opts ...Option) *Persister {
	p := &Persister{
		kv:         kv,
		interval:   DefaultFlushInterval,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		rules:      map[string]rule{},
		dirty:      map[dirtyKey]struct{}{},
		rehydrated: map[dirtyKey]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Register whitelists fields of slice and names where its snapshots come from.
func (p *Persister) Register(slice string, fields []string, snapshot SnapshotFunc) {
	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f] = struct{}{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules[slice] = rule{fields: allowed, snapshot: snapshot}
}

// MarkDirty schedules slice of owner for the next flush.
func (p *Persister) MarkDirty(slice, owner string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rules[slice]; !ok {
		return
	}
	p.dirty[dirtyKey{slice: slice, owner: owner}] = struct{}{}
}

// Pending reports how many slices wait for a flush.
func (p *Persister) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.dirty)
}

// Run flushes on every tick until ctx is done, then drains once more.
func (p *Persister) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := p.Flush(drainCtx); err != nil {
				p.logger.Error("final state flush failed", slog.String("error", err.Error()))
			}
			cancel()
			return
		case <-ticker.C:
			if err := p.Flush(ctx); err != nil {
				p.logger.Warn("state flush failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Flush writes every dirty slice. Failed keys stay dirty for the next tick.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	pending := p.dirty
	p.dirty = map[dirtyKey]struct{}{}
	rules := make(map[string]rule, len(p.rules))
	for k, v := range p.rules {
		rules[k] = v
	}
	p.mu.Unlock()

	var errs []error
	for key := range pending {
		if err := p.write(ctx, rules[key.slice], key); err != nil {
			errs = append(errs, err)
			p.mu.Lock()
			p.dirty[key] = struct{}{}
			p.mu.Unlock()
		}
	}
	return pkgerrors.WithStack(errors.Join(errs...))
}

func (p *Persister) write(ctx context.Context, r rule, key dirtyKey) error {
	if p.kv == nil {
		return ErrNotConfigured
	}
	if r.snapshot == nil {
		return nil
	}
	storageKey := Key(key.slice, key.owner)
	state, ok := r.snapshot(key.owner)
	if !ok {
		return p.kv.Delete(ctx, storageKey)
	}
	payload, err := filter(state, r.fields)
	if err != nil {
		return pkgerrors.Wrapf(err, "encode %s", storageKey)
	}
	if err := p.kv.Set(ctx, storageKey, payload); err != nil {
		return pkgerrors.Wrapf(err, "write %s", storageKey)
	}
	return nil
}

// Rehydrate decodes the stored slice of owner into dst. It loads each key at
// most once per process and reports whether dst was filled.
func (p *Persister) Rehydrate(ctx context.Context, slice, owner string, dst any) (bool, error) {
	key := dirtyKey{slice: slice, owner: owner}
	p.mu.Lock()
	r, registered := p.rules[slice]
	_, done := p.rehydrated[key]
	if registered && !done {
		p.rehydrated[key] = struct{}{}
	}
	p.mu.Unlock()
	if !registered || done || p.kv == nil {
		return false, nil
	}

	raw, found, err := p.kv.Get(ctx, Key(slice, owner))
	if err != nil {
		p.mu.Lock()
		delete(p.rehydrated, key)
		p.mu.Unlock()
		return false, pkgerrors.Wrapf(err, "read %s", Key(slice, owner))
	}
	if !found {
		return false, nil
	}
	payload, err := filter(json.RawMessage(raw), r.fields)
	if err != nil {
		return false, pkgerrors.Wrapf(err, "filter %s", Key(slice, owner))
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, pkgerrors.Wrapf(err, "decode %s", Key(slice, owner))
	}
	return true, nil
}

// filter marshals state and keeps only the allowed top-level fields.
func filter(state any, allowed map[string]struct{}) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("state is not a JSON object: %w", err)
	}
	for name := range fields {
		if _, ok := allowed[name]; !ok {
			delete(fields, name)
		}
	}
	return json.Marshal(fields)
}

// Package service is the mutation and query API over the entity store.
// Every mutation validates its input, resolves the authenticated
// principal, and runs inside one transaction through the trigger runtime,
// so the cascade reactions in internal/cascade see each write.
package service

import (
	"context"
	"log/slog"

	"github.com/workstreamhq/workstream/internal/cascade"
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// Service exposes the mutation and query surface.
type Service struct {
	store *store.Store
	reg   *trigger.Registry
	ids   entity.IDGenerator
	clock entity.Clock
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides the id source (tests use a sequential one).
func WithIDGenerator(ids entity.IDGenerator) Option {
	return func(s *Service) { s.ids = ids }
}

// WithClock overrides the time source.
func WithClock(clock entity.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New wires a service over an open store and registers the full cascade
// reaction set.
func New(st *store.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store: st,
		reg:   trigger.NewRegistry(),
		ids:   entity.UUIDv7Generator{},
		clock: entity.SystemClock{},
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if err := cascade.Register(s.reg, s.ids, s.clock); err != nil {
		return nil, err
	}
	return s, nil
}

// mutate runs fn inside one transaction with a trigger runtime. Any error
// rolls the whole unit of work back, cascaded writes included.
func (s *Service) mutate(ctx context.Context, name string, fn func(rt *trigger.Runtime) error) error {
	err := s.store.WithTx(ctx, func(tx *store.Tx) error {
		return fn(trigger.NewRuntime(tx, s.reg, trigger.WithLogger(s.log)))
	})
	if err != nil {
		s.log.Warn("mutation failed", "mutation", name, "error", err)
		return err
	}
	s.log.Debug("mutation applied", "mutation", name)
	return nil
}

// view runs fn inside a read-only transaction.
func (s *Service) view(ctx context.Context, fn func(tx *store.Tx) error) error {
	return s.store.WithTx(ctx, fn)
}

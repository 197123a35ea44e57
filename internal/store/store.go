// Package store owns the trust's ApplicationData. Every mutation goes
// through Update, which replaces the whole aggregate in memory, writes it
// through to the persistence slot and then notifies subscribers.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/metrics"
	"trust/internal/storage"
)

// Change describes the mutation passed to Update.
type Change struct {
	Op       string // e.g. OpAddMember
	Entity   string // "member", "donation" or "data"
	EntityID string
}

const (
	OpAddMember      = "member.add"
	OpRemoveMember   = "member.remove"
	OpAddDonation    = "donation.add"
	OpRemoveDonation = "donation.remove"
	OpReplace        = "data.replace"
)

// Event is delivered to subscribers after a mutation has been saved.
type Event struct {
	Change
	Members   int
	Donations int
	FundTotal int64
	At        time.Time
	SaveErr   error // non-nil when the write-through failed
}

// Subscriber is notified of every applied mutation.
type Subscriber func(ctx context.Context, ev Event)

type Store struct {
	mu   sync.Mutex
	slot storage.Slot
	key  string
	data core.ApplicationData

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int

	logger  *applog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(l *applog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the aggregate stored under key and returns the owning store.
func Open(ctx context.Context, slot storage.Slot, key string, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  key,
		subs: map[int]Subscriber{},
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = applog.FromContext(ctx).WithComponent(applog.ComponentStore)
	}
	s.data = Load(ctx, slot, key, s.logger, s.metrics)
	s.observe(s.data)
	return s
}

// Key returns the slot name the store persists to.
func (s *Store) Key() string {
	return s.key
}

// Snapshot returns a deep copy of the current aggregate.
func (s *Store) Snapshot() core.ApplicationData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Update is the single mutation entry point. fn receives a private copy of
// the current aggregate and returns its replacement. When fn fails nothing
// changes. Otherwise the replacement is installed, saved, and subscribers
// are notified. A failed save is returned but the in-memory state keeps the
// mutation.
func (s *Store) Update(ctx context.Context, change Change, fn func(core.ApplicationData) (core.ApplicationData, error)) error {
	s.mu.Lock()
	next, err := fn(s.data.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next = next.Normalize()
	next.SchemaVersion = core.SchemaVersion
	s.data = next
	saveErr := Save(ctx, s.slot, s.key, next)
	s.mu.Unlock()

	s.metrics.IncMutation(change.Op)
	s.observe(next)

	if saveErr != nil {
		s.metrics.IncSaveFailure()
		s.logger.ErrorContext(ctx, "Failed to persist application data",
			applog.NewFields().
				WithError(saveErr).
				WithErrorType(applog.ErrorTypeStorage).
				WithOperation(applog.OpSave).
				ToSlice()...)
	} else {
		s.logger.DebugContext(ctx, "Application data saved",
			applog.FieldOperation, change.Op,
			applog.FieldStorageKey, s.key)
	}

	s.notify(ctx, Event{
		Change:    change,
		Members:   len(next.Members),
		Donations: len(next.Donations),
		FundTotal: core.FundTotal(next.Donations),
		At:        s.now(),
		SaveErr:   saveErr,
	})

	if saveErr != nil {
		return fmt.Errorf("%s: %w", change.Op, saveErr)
	}
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ctx, ev)
	}
}

func (s *Store) observe(d core.ApplicationData) {
	s.metrics.ObserveData(len(d.Members), len(d.Donations), core.FundTotal(d.Donations))
}

// AddMember appends a member. Duplicate ids are rejected.
func (s *Store) AddMember(ctx context.Context, m core.Member) error {
	return s.Update(ctx, Change{Op: OpAddMember, Entity: "member", EntityID: m.ID},
		func(d core.ApplicationData) (core.ApplicationData, error) {
			return d.WithMember(m)
		})
}

// RemoveMember deletes a member by id.
func (s *Store) RemoveMember(ctx context.Context, id string) error {
	return s.Update(ctx, Change{Op: OpRemoveMember, Entity: "member", EntityID: id},
		func(d core.ApplicationData) (core.ApplicationData, error) {
			return d.WithoutMember(id)
		})
}

// AddDonation appends a donation.
func (s *Store) AddDonation(ctx context.Context, dn core.Donation) error {
	return s.Update(ctx, Change{Op: OpAddDonation, Entity: "donation", EntityID: dn.ID},
		func(d core.ApplicationData) (core.ApplicationData, error) {
			return d.WithDonation(dn)
		})
}

// RemoveDonation deletes a donation by id.
func (s *Store) RemoveDonation(ctx context.Context, id string) error {
	return s.Update(ctx, Change{Op: OpRemoveDonation, Entity: "donation", EntityID: id},
		func(d core.ApplicationData) (core.ApplicationData, error) {
			return d.WithoutDonation(id)
		})
}

// Replace swaps in a whole aggregate, e.g. from an import. It is validated
// with the same rules applied when loading.
func (s *Store) Replace(ctx context.Context, data core.ApplicationData) error {
	raw, err := Encode(data)
	if err != nil {
		return err
	}
	checked, err := Decode(raw)
	if err != nil {
		return err
	}
	return s.Update(ctx, Change{Op: OpReplace, Entity: "data"},
		func(core.ApplicationData) (core.ApplicationData, error) {
			return checked, nil
		})
}

// Ping checks that the persistence slot can still be read.
func (s *Store) Ping(ctx context.Context) error {
	if _, _, err := s.slot.Get(ctx, s.key); err != nil {
		return fmt.Errorf("read slot %q: %w", s.key, err)
	}
	return nil
}

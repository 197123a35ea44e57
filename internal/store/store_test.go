package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trust/internal/core"
	"trust/internal/storage/memory"
)

const testKey = "pathan_samaj_trust_data"

type StoreSuite struct {
	suite.Suite
	slot  *memory.Slot
	store *Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.slot = memory.New()
	s.store = Open(s.ctx, s.slot, testKey)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) newMember(name string, c core.Category) core.Member {
	return core.Member{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     c,
		Fee:          core.FeeFor(c),
		RegisteredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *StoreSuite) persisted() core.ApplicationData {
	raw, ok, err := s.slot.Get(s.ctx, testKey)
	s.Require().NoError(err)
	s.Require().True(ok, "slot should have been written")
	data, err := Decode(raw)
	s.Require().NoError(err)
	return data
}

// TestOpenEmpty verifies a fresh store starts from the empty default.
func (s *StoreSuite) TestOpenEmpty() {
	snap := s.store.Snapshot()
	s.Empty(snap.Members)
	s.Empty(snap.Donations)
	s.NotNil(snap.Members)
	s.NotNil(snap.Donations)
	s.Equal(0, s.slot.Keys(), "opening must not write")
}

// TestWriteThrough verifies every mutation is persisted as a whole aggregate.
func (s *StoreSuite) TestWriteThrough() {
	m := s.newMember("Asif", core.CategoryMuslimMale)
	s.Require().NoError(s.store.AddMember(s.ctx, m))
	s.Equal([]core.Member{m}, s.persisted().Members)

	dn := core.Donation{ID: uuid.NewString(), Amount: 5000, MemberID: m.ID}
	s.Require().NoError(s.store.AddDonation(s.ctx, dn))
	p := s.persisted()
	s.Len(p.Members, 1)
	s.Len(p.Donations, 1)
	s.Equal(core.SchemaVersion, p.SchemaVersion)

	s.Require().NoError(s.store.RemoveDonation(s.ctx, dn.ID))
	s.Empty(s.persisted().Donations)

	s.Require().NoError(s.store.RemoveMember(s.ctx, m.ID))
	s.Empty(s.persisted().Members)
}

// TestRejectedMutationLeavesStateAlone verifies failed mutations change nothing.
func (s *StoreSuite) TestRejectedMutationLeavesStateAlone() {
	m := s.newMember("Asif", core.CategoryGeneral)
	s.Require().NoError(s.store.AddMember(s.ctx, m))

	err := s.store.AddMember(s.ctx, m)
	s.Require().ErrorIs(err, core.ErrDuplicateMember)
	s.Len(s.store.Snapshot().Members, 1)

	err = s.store.AddDonation(s.ctx, core.Donation{ID: "d", Amount: -1})
	s.Require().ErrorIs(err, core.ErrNegativeAmount)
	s.Empty(s.store.Snapshot().Donations)

	s.Require().ErrorIs(s.store.RemoveMember(s.ctx, "missing"), core.ErrMemberNotFound)
}

// TestSnapshotIsolation verifies callers cannot mutate store state through a snapshot.
func (s *StoreSuite) TestSnapshotIsolation() {
	s.Require().NoError(s.store.AddMember(s.ctx, s.newMember("Asif", core.CategoryGeneral)))
	snap := s.store.Snapshot()
	snap.Members[0].Name = "changed"
	snap.Members = append(snap.Members, core.Member{ID: "x"})

	fresh := s.store.Snapshot()
	s.Len(fresh.Members, 1)
	s.Equal("Asif", fresh.Members[0].Name)
}

// TestReload verifies loading after saving yields a structurally equal aggregate.
func (s *StoreSuite) TestReload() {
	m := s.newMember("Asif", core.CategoryGeneral)
	s.Require().NoError(s.store.AddMember(s.ctx, m))
	s.Require().NoError(s.store.AddDonation(s.ctx, core.Donation{
		ID: "d1", Amount: 100, DonorName: "walk-in", DonatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}))

	reopened := Open(s.ctx, s.slot, testKey)
	s.Equal(s.store.Snapshot(), reopened.Snapshot())
}

// TestSubscribers verifies notification happens after the save and unsubscribe works.
func (s *StoreSuite) TestSubscribers() {
	var events []Event
	unsubscribe := s.store.Subscribe(func(ctx context.Context, ev Event) {
		// The slot must already hold the new state when we are notified.
		s.Len(s.persisted().Members, ev.Members)
		events = append(events, ev)
	})

	m := s.newMember("Asif", core.CategoryGeneral)
	s.Require().NoError(s.store.AddMember(s.ctx, m))
	s.Require().NoError(s.store.AddDonation(s.ctx, core.Donation{ID: "d1", Amount: 700}))

	s.Require().Len(events, 2)
	s.Equal(OpAddMember, events[0].Op)
	s.Equal(m.ID, events[0].EntityID)
	s.Equal(OpAddDonation, events[1].Op)
	s.Equal(int64(700), events[1].FundTotal)

	unsubscribe()
	s.Require().NoError(s.store.RemoveDonation(s.ctx, "d1"))
	s.Len(events, 2)
}

// TestReplaceValidates verifies whole-aggregate import applies load rules.
func (s *StoreSuite) TestReplaceValidates() {
	bad := core.ApplicationData{Members: []core.Member{{ID: "a", Name: "x", Category: "vip"}}}
	s.Require().ErrorIs(s.store.Replace(s.ctx, bad), core.ErrInvalidCategory)

	good := core.ApplicationData{Donations: []core.Donation{{ID: "d", Amount: 10}}}
	s.Require().NoError(s.store.Replace(s.ctx, good))
	s.Equal(int64(10), core.FundTotal(s.store.Snapshot().Donations))
}

type failingSlot struct{ *memory.Slot }

func (failingSlot) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	st := Open(ctx, failingSlot{memory.New()}, testKey)

	var got Event
	st.Subscribe(func(_ context.Context, ev Event) { got = ev })

	err := st.AddDonation(ctx, core.Donation{ID: "d1", Amount: 1})
	if err == nil {
		t.Fatal("expected save error")
	}
	if got.SaveErr == nil {
		t.Fatal("subscriber should see the save error")
	}
	if n := len(st.Snapshot().Donations); n != 1 {
		t.Fatalf("in-memory donations = %d, want 1", n)
	}
}

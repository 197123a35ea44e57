package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/store"
)

// RegistrationInput is what the registration form submits.
type RegistrationInput struct {
	Name     string
	Phone    string
	Village  string
	Category core.Category
}

// DonationInput is what the fund form submits.
type DonationInput struct {
	Amount    int64
	MemberID  string
	DonorName string
	Note      string
}

// ErrStorage marks a mutation that was applied in memory but could not be
// written to the persistence slot.
var ErrStorage = errors.New("storage unavailable")

// TrustService turns form input into store mutations. Ids and timestamps
// are assigned here so the store only ever sees complete records.
type TrustService struct {
	store  *store.Store
	logger *applog.StructuredLogger
	now    func() time.Time
	newID  func() string
}

func NewTrustService(st *store.Store, logger *applog.Logger) *TrustService {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &TrustService{
		store:  st,
		logger: applog.NewStructuredLogger(logger.WithComponent(applog.ComponentStore)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// RegisterMember creates a member with the fee for its category.
func (s *TrustService) RegisterMember(ctx context.Context, in RegistrationInput) (core.Member, error) {
	if in.Category == "" {
		in.Category = core.CategoryGeneral
	}
	m := core.Member{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Village:      strings.TrimSpace(in.Village),
		Category:     in.Category,
		Fee:          core.FeeFor(in.Category),
		RegisteredAt: s.now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}

	if err := s.store.AddMember(ctx, m); err != nil {
		if isStoreFailure(err) {
			return m, fmt.Errorf("register member: %w: %w", ErrStorage, err)
		}
		return core.Member{}, fmt.Errorf("register member: %w", err)
	}

	s.logger.LogMemberRegistered(ctx, m.ID, m.Name, string(m.Category), m.Fee)
	return m, nil
}

// RecordDonation stores a donation, optionally linked to a member.
func (s *TrustService) RecordDonation(ctx context.Context, in DonationInput) (core.Donation, error) {
	d := core.Donation{
		ID:        s.newID(),
		Amount:    in.Amount,
		MemberID:  strings.TrimSpace(in.MemberID),
		DonorName: strings.TrimSpace(in.DonorName),
		Note:      strings.TrimSpace(in.Note),
		DonatedAt: s.now().UTC(),
	}
	if d.MemberID == "" && d.DonorName == "" {
		d.DonorName = "અનામી"
	}
	if err := d.Validate(); err != nil {
		return core.Donation{}, err
	}

	if err := s.store.AddDonation(ctx, d); err != nil {
		if isStoreFailure(err) {
			return d, fmt.Errorf("record donation: %w: %w", ErrStorage, err)
		}
		return core.Donation{}, fmt.Errorf("record donation: %w", err)
	}

	s.logger.LogDonationRecorded(ctx, d.ID, d.Amount, d.MemberID)
	return d, nil
}

func (s *TrustService) RemoveMember(ctx context.Context, id string) error {
	if err := s.store.RemoveMember(ctx, id); err != nil {
		return s.wrapRemove(ctx, "remove member", err)
	}
	applog.FromContext(ctx).InfoContext(ctx, "Member removed", applog.FieldMemberID, id)
	return nil
}

func (s *TrustService) RemoveDonation(ctx context.Context, id string) error {
	if err := s.store.RemoveDonation(ctx, id); err != nil {
		return s.wrapRemove(ctx, "remove donation", err)
	}
	applog.FromContext(ctx).InfoContext(ctx, "Donation removed", applog.FieldDonationID, id)
	return nil
}

func (s *TrustService) wrapRemove(ctx context.Context, op string, err error) error {
	if isStoreFailure(err) {
		s.logger.LogError(ctx, "Removal applied but not persisted", err,
			applog.ComponentStore, applog.OpDelete, applog.NewFields())
		return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Search finds members for the Dikri Yojna screen.
func (s *TrustService) Search(query string) []core.Member {
	return core.SearchMembers(s.store.Snapshot().Members, query)
}

// Overview returns the fund projection, recomputed from the current data.
func (s *TrustService) Overview() core.FundOverview {
	return core.Overview(s.store.Snapshot())
}

// isStoreFailure separates write-through failures from rejected input. The
// domain rejects with sentinel errors; anything else came from the slot.
func isStoreFailure(err error) bool {
	for _, domainErr := range []error{
		core.ErrNegativeAmount, core.ErrInvalidAmount, core.ErrEmptyName, core.ErrEmptyID,
		core.ErrInvalidCategory, core.ErrDuplicateMember, core.ErrMemberNotFound,
		core.ErrDonationNotFound, core.ErrUnknownMember, core.ErrAmountTooLarge,
		core.ErrFundOverflow, core.ErrNameTooLong, core.ErrNoteTooLong,
	} {
		if errors.Is(err, domainErr) {
			return false
		}
	}
	return true
}

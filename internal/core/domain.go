package core

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// RegistrationFee is the general registration fee in rupees.
	RegistrationFee int64 = 34000
	// MuslimMaleRegistrationFee is the reduced fee for the muslim male category.
	MuslimMaleRegistrationFee int64 = 9000

	// MaxAmount bounds a single donation or fee (one lakh crore rupees).
	MaxAmount int64 = 1_000_000_000_000

	// MaxNameLength and MaxNoteLength count characters, not bytes.
	MaxNameLength = 200
	MaxNoteLength = 500

	// SchemaVersion is stamped on every saved ApplicationData.
	SchemaVersion = 1
)

const (
	CategoryGeneral    Category = "general"
	CategoryMuslimMale Category = "muslim_male"
)

type (
	Category string

	Member struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Phone        string    `json:"phone,omitempty"`
		Village      string    `json:"village,omitempty"`
		Category     Category  `json:"category"`
		Fee          int64     `json:"fee"`
		RegisteredAt time.Time `json:"registeredAt"`
	}

	Donation struct {
		ID        string    `json:"id"`
		Amount    int64     `json:"amount"`
		MemberID  string    `json:"memberId,omitempty"`  // optional back-reference into Members
		DonorName string    `json:"donorName,omitempty"` // standalone donor info
		Note      string    `json:"note,omitempty"`
		DonatedAt time.Time `json:"donatedAt"`
	}

	// ApplicationData is the aggregate root: it is loaded and saved as a whole.
	ApplicationData struct {
		SchemaVersion int        `json:"schemaVersion"`
		Members       []Member   `json:"members"`
		Donations     []Donation `json:"donations"`
	}
)

var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = errors.New("amount exceeds the maximum")
	ErrFundOverflow     = errors.New("fund total would overflow")
	ErrNameTooLong      = errors.New("name too long (max 200 characters)")
	ErrNoteTooLong      = errors.New("note too long (max 500 characters)")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyID          = errors.New("empty id")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrDuplicateMember  = errors.New("member already exists")
	ErrMemberNotFound   = errors.New("member not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrUnknownMember    = errors.New("donation references unknown member")
)

// Categories lists the declared member categories in display order.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryMuslimMale}
}

// IsValid reports whether c is a declared category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryMuslimMale:
		return true
	default:
		return false
	}
}

// Label returns the Gujarati display label.
func (c Category) Label() string {
	switch c {
	case CategoryMuslimMale:
		return "મુસ્લિમ પુરુષ"
	default:
		return "સામાન્ય"
	}
}

// FeeFor selects the registration fee for a category. Only the muslim male
// category gets the reduced fee; everything else pays the general fee.
func FeeFor(c Category) int64 {
	if c == CategoryMuslimMale {
		return MuslimMaleRegistrationFee
	}
	return RegistrationFee
}

// EmptyData returns the default aggregate used when nothing is persisted.
func EmptyData() ApplicationData {
	return ApplicationData{
		SchemaVersion: SchemaVersion,
		Members:       []Member{},
		Donations:     []Donation{},
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (d ApplicationData) Clone() ApplicationData {
	out := ApplicationData{
		SchemaVersion: d.SchemaVersion,
		Members:       make([]Member, len(d.Members)),
		Donations:     make([]Donation, len(d.Donations)),
	}
	copy(out.Members, d.Members)
	copy(out.Donations, d.Donations)
	return out
}

// Normalize replaces nil slices with empty ones.
func (d ApplicationData) Normalize() ApplicationData {
	if d.Members == nil {
		d.Members = []Member{}
	}
	if d.Donations == nil {
		d.Donations = []Donation{}
	}
	return d
}

// FindMember looks up a member by id. A missing id is not an error.
func (d ApplicationData) FindMember(id string) (Member, bool) {
	for _, m := range d.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func (d ApplicationData) memberIndex(id string) int {
	for i, m := range d.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (d ApplicationData) donationIndex(id string) int {
	for i, dn := range d.Donations {
		if dn.ID == id {
			return i
		}
	}
	return -1
}

// WithMember returns a new aggregate with m appended.
func (d ApplicationData) WithMember(m Member) (ApplicationData, error) {
	if err := m.Validate(); err != nil {
		return d, err
	}
	if d.memberIndex(m.ID) >= 0 {
		return d, ErrDuplicateMember
	}
	next := d.Clone()
	next.Members = append(next.Members, m)
	return next, nil
}

// WithoutMember returns a new aggregate with the member removed. Donations
// referencing the member are kept; the reference simply stops resolving.
func (d ApplicationData) WithoutMember(id string) (ApplicationData, error) {
	i := d.memberIndex(id)
	if i < 0 {
		return d, ErrMemberNotFound
	}
	next := d.Clone()
	next.Members = append(next.Members[:i], next.Members[i+1:]...)
	return next, nil
}

// WithDonation returns a new aggregate with dn appended.
func (d ApplicationData) WithDonation(dn Donation) (ApplicationData, error) {
	if err := dn.Validate(); err != nil {
		return d, err
	}
	if dn.MemberID != "" && d.memberIndex(dn.MemberID) < 0 {
		return d, ErrUnknownMember
	}
	total, err := CheckedFundTotal(d.Donations)
	if err != nil || total > math.MaxInt64-dn.Amount {
		return d, ErrFundOverflow
	}
	next := d.Clone()
	next.Donations = append(next.Donations, dn)
	return next, nil
}

// WithoutDonation returns a new aggregate with the donation removed.
func (d ApplicationData) WithoutDonation(id string) (ApplicationData, error) {
	i := d.donationIndex(id)
	if i < 0 {
		return d, ErrDonationNotFound
	}
	next := d.Clone()
	next.Donations = append(next.Donations[:i], next.Donations[i+1:]...)
	return next, nil
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !m.Category.IsValid() {
		return ErrInvalidCategory
	}
	if m.Fee < 0 {
		return ErrNegativeAmount
	}
	if m.Fee > MaxAmount {
		return ErrAmountTooLarge
	}
	return nil
}

func (d Donation) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyID
	}
	if d.Amount < 0 {
		return ErrNegativeAmount
	}
	if d.Amount > MaxAmount {
		return ErrAmountTooLarge
	}
	if utf8.RuneCountInString(d.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

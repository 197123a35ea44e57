package core

import (
	"math"
	"sort"
	"strings"
)

// FundTotal sums every donation amount. It is recomputed on each call and
// saturates at math.MaxInt64 instead of wrapping.
func FundTotal(donations []Donation) int64 {
	total, err := CheckedFundTotal(donations)
	if err != nil {
		return math.MaxInt64
	}
	return total
}

// CheckedFundTotal sums donation amounts and fails with ErrFundOverflow when
// the sum does not fit in an int64.
func CheckedFundTotal(donations []Donation) (int64, error) {
	var total int64
	for _, d := range donations {
		if d.Amount > 0 && total > math.MaxInt64-d.Amount {
			return 0, ErrFundOverflow
		}
		total += d.Amount
	}
	return total, nil
}

// FundOverview is the projection rendered by the fund view.
type FundOverview struct {
	Total     int64
	Count     int
	ByMember  []MemberTotal
	Anonymous int64 // donations without a resolvable member
}

// MemberTotal is the amount donated by one member.
type MemberTotal struct {
	MemberID string
	Name     string
	Amount   int64
}

// Overview builds the fund projection from a snapshot.
func Overview(d ApplicationData) FundOverview {
	ov := FundOverview{
		Total: FundTotal(d.Donations),
		Count: len(d.Donations),
	}
	byID := map[string]int64{}
	for _, dn := range d.Donations {
		if _, ok := d.FindMember(dn.MemberID); dn.MemberID == "" || !ok {
			ov.Anonymous += dn.Amount
			continue
		}
		byID[dn.MemberID] += dn.Amount
	}
	for id, amt := range byID {
		m, _ := d.FindMember(id)
		ov.ByMember = append(ov.ByMember, MemberTotal{MemberID: id, Name: m.Name, Amount: amt})
	}
	sort.Slice(ov.ByMember, func(i, j int) bool {
		if ov.ByMember[i].Amount != ov.ByMember[j].Amount {
			return ov.ByMember[i].Amount > ov.ByMember[j].Amount
		}
		return ov.ByMember[i].Name < ov.ByMember[j].Name
	})
	return ov
}

// SearchMembers returns members whose name, phone or village contains query,
// case-insensitively. An empty query matches everyone.
func SearchMembers(members []Member, query string) []Member {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(m.Phone, q) ||
			strings.Contains(strings.ToLower(m.Village), q) {
			out = append(out, m)
		}
	}
	return out
}

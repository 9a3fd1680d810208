package split

import "github.com/fkhayef/billsnap/internal/money"

// levy is one friend's allocated portion of the receipt's tax and
// service charge.
type levy struct {
	tax     money.Money
	service money.Money
}

// allocate distributes the recorded tax and service charge across friends
// in proportion to each friend's share of the subtotal baseline. The ratio
// is exact decimal division; rounding happens once, when the ratio is
// applied to each charge.
//
// A zero baseline (no items, or none carrying cost) yields zero ratios and
// therefore zero charges for everyone - never a division error.
func allocate(subtotals map[FriendID]money.Money, baseline, tax, service money.Money) map[FriendID]levy {
	out := make(map[FriendID]levy, len(subtotals))
	for id, s := range subtotals {
		ratio := s.Ratio(baseline)
		out[id] = levy{
			tax:     tax.ApplyRatio(ratio),
			service: service.ApplyRatio(ratio),
		}
	}
	return out
}

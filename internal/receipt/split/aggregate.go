package split

import "github.com/fkhayef/billsnap/internal/money"

// aggregate sums each friend's per-item shares into a raw subtotal and,
// independently, sums every item's cost (assigned or not) into the
// receipt's subtotal baseline.
//
// Friends never referenced by any item stay absent from the map - absent,
// not zero-valued - so a friend with no items never surfaces in the result.
func aggregate(items []LineItem) (map[FriendID]money.Money, money.Money) {
	subtotals := make(map[FriendID]money.Money)
	baseline := money.Zero()

	for _, item := range items {
		baseline = baseline.Add(item.Cost)

		share, contributors := itemShare(item)
		for _, id := range contributors {
			subtotals[id] = subtotals[id].Add(share)
		}
	}

	return subtotals, baseline
}

package split

import (
	"sort"

	"github.com/fkhayef/billsnap/internal/money"
)

// itemShare splits one item's recorded cost evenly across the distinct
// friends assigned to it. An unassigned item yields a zero share and no
// contributors; its cost still counts toward the subtotal baseline.
//
// contributors * share may differ from the item cost by up to one cent.
// That per-item drift is absorbed by the reconciler, not corrected here.
func itemShare(item LineItem) (money.Money, []FriendID) {
	contributors := distinctSorted(item.FriendIDs)
	if len(contributors) == 0 {
		return money.Zero(), nil
	}
	return item.Cost.Div(int64(len(contributors))), contributors
}

// distinctSorted deduplicates friend IDs and returns them in ascending
// order, keeping per-item iteration deterministic.
func distinctSorted(ids []FriendID) []FriendID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[FriendID]struct{}, len(ids))
	out := make([]FriendID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

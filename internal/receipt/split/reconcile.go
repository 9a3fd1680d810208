package split

import "github.com/fkhayef/billsnap/internal/money"

// reconcile computes each friend's unadjusted total and then corrects the
// cumulative rounding error so the totals sum to the recorded grand total
// exactly. The whole residual lands on the first share in the slice, which
// the caller has already sorted descending by subtotal (ties: ascending
// friend ID): concentrating unavoidable drift on the largest payer keeps
// the relative distortion minimal and the rule deterministic.
//
// The residual is applied regardless of magnitude. Validating the grand
// total against item costs is a caller-level concern.
func reconcile(shares []FriendShare, grandTotal money.Money) {
	sum := money.Zero()
	for i := range shares {
		shares[i].Total = shares[i].Subtotal.
			Add(shares[i].Tax).
			Add(shares[i].ServiceCharge)
		sum = sum.Add(shares[i].Total)
	}

	if len(shares) == 0 {
		return
	}

	if residual := grandTotal.Sub(sum); !residual.IsZero() {
		shares[0].Total = shares[0].Total.Add(residual)
	}
}

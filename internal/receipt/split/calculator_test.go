package split

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/billsnap/internal/money"
)

func m(s string) money.Money {
	return money.MustNew(s)
}

func sumOfTotals(shares []FriendShare) money.Money {
	sum := money.Zero()
	for _, s := range shares {
		sum = sum.Add(s.Total)
	}
	return sum
}

func TestComputeBurgerSodaScenario(t *testing.T) {
	// Burger 24.00 shared by friends 1 and 2; Soda 1.50 assigned to nobody.
	// The soda still counts toward the baseline, so the rounded per-friend
	// totals undershoot the grand total and the residual lands on friend 1.
	totals := Totals{
		Tax:           m("2.50"),
		ServiceCharge: m("3.00"),
		GrandTotal:    m("31.00"),
		Currency:      "USD",
	}
	items := []LineItem{
		{ID: 10, Name: "Burger", Cost: m("24.00"), FriendIDs: []FriendID{1, 2}},
		{ID: 11, Name: "Soda", Cost: m("1.50")},
	}

	result, err := NewCalculator().Compute(totals, items, []FriendID{1, 2})
	require.NoError(t, err)

	require.Len(t, result.FriendShares, 2)
	assert.True(t, result.Summary.Subtotal.Equal(m("25.50")), "baseline includes the unassigned soda")
	assert.True(t, result.Summary.Total.Equal(m("31.00")))

	first, second := result.FriendShares[0], result.FriendShares[1]
	assert.Equal(t, FriendID(1), first.FriendID, "tied subtotals break toward the lower friend id")
	assert.Equal(t, FriendID(2), second.FriendID)

	for _, share := range result.FriendShares {
		assert.True(t, share.Subtotal.Equal(m("12.00")))
		assert.True(t, share.Tax.Equal(m("1.18")))
		assert.True(t, share.ServiceCharge.Equal(m("1.41")))
	}

	// 12.00+1.18+1.41 = 14.59 each; residual 31.00-29.18 = 1.82 goes to friend 1.
	assert.True(t, first.Total.Equal(m("16.41")), "got %s", first.Total)
	assert.True(t, second.Total.Equal(m("14.59")), "got %s", second.Total)
	assert.True(t, sumOfTotals(result.FriendShares).Equal(totals.GrandTotal))
}

func TestComputeExactReconciliation(t *testing.T) {
	tests := []struct {
		name    string
		totals  Totals
		items   []LineItem
		friends []FriendID
	}{
		{
			name:   "three-way split with repeating thirds",
			totals: Totals{Tax: m("1.00"), GrandTotal: m("11.00")},
			items: []LineItem{
				{ID: 1, Name: "Platter", Cost: m("10.00"), FriendIDs: []FriendID{1, 2, 3}},
			},
			friends: []FriendID{1, 2, 3},
		},
		{
			name:   "seven-way split",
			totals: Totals{Tax: m("0.77"), ServiceCharge: m("1.25"), GrandTotal: m("26.02")},
			items: []LineItem{
				{ID: 1, Name: "Paella", Cost: m("24.00"), FriendIDs: []FriendID{1, 2, 3, 4, 5, 6, 7}},
			},
			friends: []FriendID{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "grand total diverging from item costs",
			totals: Totals{Tax: m("2.00"), GrandTotal: m("40.00")},
			items: []LineItem{
				{ID: 1, Name: "Ramen", Cost: m("15.00"), FriendIDs: []FriendID{1}},
				{ID: 2, Name: "Gyoza", Cost: m("8.50"), FriendIDs: []FriendID{1, 2}},
			},
			friends: []FriendID{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewCalculator().Compute(tt.totals, tt.items, tt.friends)
			require.NoError(t, err)
			assert.True(t, sumOfTotals(result.FriendShares).Equal(tt.totals.GrandTotal),
				"totals sum to %s, want %s", sumOfTotals(result.FriendShares), tt.totals.GrandTotal)
			for _, share := range result.FriendShares {
				assert.False(t, share.Subtotal.IsNegative())
				assert.False(t, share.Tax.IsNegative())
				assert.False(t, share.ServiceCharge.IsNegative())
			}
		})
	}
}

func TestComputeNoSpuriousFriends(t *testing.T) {
	totals := Totals{GrandTotal: m("20.00")}
	items := []LineItem{
		{ID: 1, Name: "Steak", Cost: m("20.00"), FriendIDs: []FriendID{2}},
	}

	// Friend 5 is known but has no items: they must not appear at all.
	result, err := NewCalculator().Compute(totals, items, []FriendID{2, 5})
	require.NoError(t, err)

	require.Len(t, result.FriendShares, 1)
	assert.Equal(t, FriendID(2), result.FriendShares[0].FriendID)
}

func TestComputeProportionalAllocation(t *testing.T) {
	totals := Totals{Tax: m("3.00"), GrandTotal: m("33.00")}
	items := []LineItem{
		{ID: 1, Name: "Pizza", Cost: m("20.00"), FriendIDs: []FriendID{1}},
		{ID: 2, Name: "Salad", Cost: m("10.00"), FriendIDs: []FriendID{2}},
	}

	result, err := NewCalculator().Compute(totals, items, []FriendID{1, 2})
	require.NoError(t, err)

	require.Len(t, result.FriendShares, 2)
	bigger, smaller := result.FriendShares[0], result.FriendShares[1]
	assert.Equal(t, FriendID(1), bigger.FriendID)
	assert.True(t, bigger.Tax.Equal(m("2.00")))
	assert.True(t, smaller.Tax.Equal(m("1.00")))
	assert.True(t, bigger.Tax.Cmp(smaller.Tax) >= 0,
		"the friend with the larger subtotal never pays less tax")
}

func TestComputeIdempotent(t *testing.T) {
	totals := Totals{Tax: m("1.35"), ServiceCharge: m("2.10"), GrandTotal: m("37.90")}
	items := []LineItem{
		{ID: 1, Name: "Curry", Cost: m("18.45"), FriendIDs: []FriendID{3, 1}},
		{ID: 2, Name: "Naan", Cost: m("4.00"), FriendIDs: []FriendID{1, 2, 3}},
		{ID: 3, Name: "Lassi", Cost: m("12.00"), FriendIDs: []FriendID{2}},
	}
	friends := []FriendID{1, 2, 3}

	calc := NewCalculator()
	first, err := calc.Compute(totals, items, friends)
	require.NoError(t, err)
	second, err := calc.Compute(totals, items, friends)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeEmptyItems(t *testing.T) {
	result, err := NewCalculator().Compute(Totals{GrandTotal: m("0.00")}, nil, []FriendID{1})
	require.NoError(t, err)

	assert.Empty(t, result.FriendShares)
	assert.Empty(t, result.Items)
	assert.True(t, result.Summary.Subtotal.IsZero())
	assert.True(t, result.Summary.Tax.IsZero())
	assert.True(t, result.Summary.ServiceCharge.IsZero())
	assert.True(t, result.Summary.Total.IsZero())
}

func TestComputeZeroBaseline(t *testing.T) {
	// Items carrying no cost: ratios collapse to zero instead of dividing
	// by the zero baseline.
	totals := Totals{Tax: m("1.00"), GrandTotal: m("1.00")}
	items := []LineItem{
		{ID: 1, Name: "Water", Cost: m("0.00"), FriendIDs: []FriendID{1}},
	}

	result, err := NewCalculator().Compute(totals, items, []FriendID{1})
	require.NoError(t, err)

	require.Len(t, result.FriendShares, 1)
	share := result.FriendShares[0]
	assert.True(t, share.Subtotal.IsZero())
	assert.True(t, share.Tax.IsZero())
	assert.True(t, share.ServiceCharge.IsZero())
	// The full grand total is residual and lands on the only friend.
	assert.True(t, share.Total.Equal(m("1.00")))
}

func TestComputeUnknownFriend(t *testing.T) {
	totals := Totals{GrandTotal: m("10.00")}
	items := []LineItem{
		{ID: 7, Name: "Wings", Cost: m("10.00"), FriendIDs: []FriendID{99}},
	}

	result, err := NewCalculator().Compute(totals, items, []FriendID{1})
	require.Error(t, err)
	assert.Nil(t, result, "no partial result on failure")

	var unknown *UnknownFriendError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, int64(7), unknown.ItemID)
	assert.Equal(t, FriendID(99), unknown.FriendID)
}

func TestComputeInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		totals Totals
		items  []LineItem
		field  string
	}{
		{
			name:   "negative tax",
			totals: Totals{Tax: m("-0.01"), GrandTotal: m("1.00")},
			field:  "tax",
		},
		{
			name:   "negative service charge",
			totals: Totals{ServiceCharge: m("-5.00"), GrandTotal: m("1.00")},
			field:  "service_charge",
		},
		{
			name:   "negative grand total",
			totals: Totals{GrandTotal: m("-1.00")},
			field:  "grand_total",
		},
		{
			name:   "negative item cost",
			totals: Totals{GrandTotal: m("1.00")},
			items:  []LineItem{{ID: 1, Name: "Refund", Cost: m("-2.00")}},
			field:  "items[0].cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewCalculator().Compute(tt.totals, tt.items, nil)
			require.Error(t, err)
			assert.Nil(t, result)

			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestComputeDuplicateAssignmentsCollapse(t *testing.T) {
	totals := Totals{GrandTotal: m("12.00")}
	items := []LineItem{
		{ID: 1, Name: "Nachos", Cost: m("12.00"), FriendIDs: []FriendID{4, 4, 2}},
	}

	result, err := NewCalculator().Compute(totals, items, []FriendID{2, 4})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, []FriendID{2, 4}, result.Items[0].FriendIDs)
	assert.True(t, result.Items[0].ShareAmount.Equal(m("6.00")), "duplicates count once")
}

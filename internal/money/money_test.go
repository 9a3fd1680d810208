package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		parts  int64
		want   string
	}{
		{"exact division", "24.00", 2, "12.00"},
		{"repeating third rounds down", "10.00", 3, "3.33"},
		{"half cent rounds up", "0.25", 10, "0.03"},
		{"seven-way", "24.00", 7, "3.43"},
		{"single part", "9.99", 1, "9.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustNew(tt.amount).Div(tt.parts)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestApplyRatio(t *testing.T) {
	// 2.50 * (12.00/25.50) = 1.17647... rounds half-up to 1.18.
	ratio := MustNew("12.00").Ratio(MustNew("25.50"))
	got := MustNew("2.50").ApplyRatio(ratio)
	assert.Equal(t, "1.18", got.String())
}

func TestRatioZeroDenominator(t *testing.T) {
	ratio := MustNew("5.00").Ratio(Zero())
	assert.True(t, ratio.IsZero())
}

func TestAddSub(t *testing.T) {
	a := MustNew("10.05")
	b := MustNew("0.07")

	assert.Equal(t, "10.12", a.Add(b).String())
	assert.Equal(t, "9.98", a.Sub(b).String())
	assert.True(t, b.Sub(a).IsNegative())
}

func TestZeroValueIsUsable(t *testing.T) {
	var m Money
	assert.True(t, m.IsZero())
	assert.Equal(t, "5.00", m.Add(MustNew("5.00")).String())
}

func TestNewRejectsGarbage(t *testing.T) {
	_, err := New("12.3.4")
	require.Error(t, err)
	_, err = New("not money")
	require.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(MustNew("12.50"))
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(out), "plain number, two decimal places")

	var m Money
	require.NoError(t, json.Unmarshal([]byte("3.456"), &m))
	assert.Equal(t, "3.46", m.String())

	require.NoError(t, json.Unmarshal([]byte(`"7.10"`), &m))
	assert.Equal(t, "7.10", m.String())
}

func TestScanAndValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("42.10")))
	assert.Equal(t, "42.10", m.String())

	require.NoError(t, m.Scan("0.99"))
	assert.Equal(t, "0.99", m.String())

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "0.99", v)

	require.Error(t, m.Scan(true))
}

func TestFromDecimalRounds(t *testing.T) {
	d := decimal.RequireFromString("1.005")
	assert.Equal(t, "1.01", FromDecimal(d).String())
}

package decimalx_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxengine/internal/decimalx"
)

func TestMoney2_HalfUpRounding(t *testing.T) {
	cases := []struct {
		subtotal string
		rate     string
		want     string
	}{
		{"100.01", "0.0875", "8.75"}, // raw 8.750875
		{"100.03", "0.0875", "8.75"}, // raw 8.752625
		{"57.14", "0.0875", "5.00"},  // raw 4.99975 -> rounds up
		{"100.00", "0.0888", "8.88"},
	}

	for _, c := range cases {
		subtotal := decimal.RequireFromString(c.subtotal)
		rate := decimal.RequireFromString(c.rate)
		raw := subtotal.Mul(rate)
		got := decimalx.Money2(raw)
		assert.Equal(t, c.want, got.StringFixed(2), "subtotal=%s rate=%s raw=%s", c.subtotal, c.rate, raw.String())
	}
}

func TestMoney2_NegativeRoundsAwayFromZero(t *testing.T) {
	got := decimalx.Money2(decimal.RequireFromString("-1.005"))
	assert.Equal(t, "-1.01", got.StringFixed(2))
}

func TestRate4(t *testing.T) {
	got := decimalx.Rate4(decimal.RequireFromString("0.04").Add(decimal.RequireFromString("0.0488")))
	assert.Equal(t, "0.0888", got.StringFixed(4))
}

func TestMoney2_CompositeVsSumOfRoundedComponentsCanDiffer(t *testing.T) {
	// Composite-rate multiplication is authoritative and must NOT be
	// replaced by summing independently rounded component taxes.
	// 3.00 x 0.0050 = 0.015 -> 0.02 and 3.00 x 0.0150 = 0.045 -> 0.05 sum to
	// 0.07, while 3.00 x 0.0200 = 0.06 exactly.
	subtotal := decimal.RequireFromString("3.00")
	rateA := decimal.RequireFromString("0.0050")
	rateB := decimal.RequireFromString("0.0150")

	taxA := decimalx.Money2(subtotal.Mul(rateA))
	taxB := decimal.RequireFromString(subtotal.Mul(rateB).StringFixed(2))
	sumOfRounded := taxA.Add(taxB)

	composite := rateA.Add(rateB)
	authoritative := decimalx.Money2(subtotal.Mul(composite))

	assert.NotEqual(t, sumOfRounded.StringFixed(2), authoritative.StringFixed(2))
}

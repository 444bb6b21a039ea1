package odds

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimalToFractional(t *testing.T) {
	tests := []struct {
		dec  float64
		want string
	}{
		{2.5, "3/2"},
		{3.0, "2/1"},
		{1.5, "1/2"},
		{2.0, "1/1"},
		{1.615, "8/13"},
		{3.25, "9/4"},
		{6.0, "5/1"},
		{101.0, "100/1"},
		{1.0, "0/1"},
		{0.5, "0/1"},
		{-3, "0/1"},
		// No canonical price within tolerance: generic reduction.
		{1.52, "13/25"},
	}

	for _, tt := range tests {
		if got := DecimalToFractional(tt.dec); got != tt.want {
			t.Errorf("DecimalToFractional(%v) = %q, want %q", tt.dec, got, tt.want)
		}
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		dec  float64
		want string
	}{
		{2.5, "+150"},
		{2.0, "+100"},
		{3.75, "+275"},
		{1.5, "-200"},
		{1.91, "-110"},
		{1.2, "-500"},
		{1.0, "+100"},
		{0.0, "+100"},
	}

	for _, tt := range tests {
		if got := DecimalToAmerican(tt.dec); got != tt.want {
			t.Errorf("DecimalToAmerican(%v) = %q, want %q", tt.dec, got, tt.want)
		}
	}
}

func TestDecimalToImplied(t *testing.T) {
	tests := []struct {
		dec  float64
		want float64
	}{
		{2.5, 40.00},
		{2.0, 50.00},
		{1.5, 66.67},
		{4.0, 25.00},
		{0, 0},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := DecimalToImplied(tt.dec); got != tt.want {
			t.Errorf("DecimalToImplied(%v) = %v, want %v", tt.dec, got, tt.want)
		}
	}
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		american string
		want     float64
	}{
		{"-200", 1.5},
		{"+150", 2.5},
		{"150", 2.5},
		{"-110", 1.909},
		{"0", DefaultDecimal},
		{"junk", DefaultDecimal},
		{"", DefaultDecimal},
	}

	for _, tt := range tests {
		if got := AmericanToDecimal(tt.american); got != tt.want {
			t.Errorf("AmericanToDecimal(%q) = %v, want %v", tt.american, got, tt.want)
		}
	}
}

func TestFractionalToDecimal(t *testing.T) {
	tests := []struct {
		fractional string
		want       float64
	}{
		{"3/2", 2.5},
		{"1/2", 1.5},
		{"10/3", 4.333},
		{"100/1", 101.0},
		{"5", DefaultDecimal},
		{"3/0", DefaultDecimal},
		{"a/b", DefaultDecimal},
		{"1/2/3", DefaultDecimal},
	}

	for _, tt := range tests {
		if got := FractionalToDecimal(tt.fractional); got != tt.want {
			t.Errorf("FractionalToDecimal(%q) = %v, want %v", tt.fractional, got, tt.want)
		}
	}
}

func TestImpliedToDecimal(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{40, 2.5},
		{50, 2.0},
		{66.67, 1.5},
		{0, DefaultDecimal},
		{-5, DefaultDecimal},
		{math.NaN(), DefaultDecimal},
	}

	for _, tt := range tests {
		if got := ImpliedToDecimal(tt.percent); got != tt.want {
			t.Errorf("ImpliedToDecimal(%v) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

// Fractional conversion loses at most the table tolerance plus rounding;
// round-tripping must land within 0.05 of the original price.
func TestFractionalRoundTrip(t *testing.T) {
	for _, dec := range []float64{1.2, 1.33, 1.5, 1.52, 1.615, 2.0, 2.1, 2.5, 3.0, 4.33, 6.0, 11.0, 101.0} {
		got := FractionalToDecimal(DecimalToFractional(dec))
		if math.Abs(got-dec) > 0.05 {
			t.Errorf("round trip %v -> %q -> %v drifted more than 0.05",
				dec, DecimalToFractional(dec), got)
		}
	}
}

func TestAmericanRoundTrip(t *testing.T) {
	for _, dec := range []float64{1.2, 1.5, 1.73, 1.91, 2.0, 2.5, 3.75, 11.0} {
		got := AmericanToDecimal(DecimalToAmerican(dec))
		if math.Abs(got-dec) > 0.005 {
			t.Errorf("round trip %v -> %q -> %v not equal to 2 decimal places",
				dec, DecimalToAmerican(dec), got)
		}
	}
}

func TestImpliedMonotonic(t *testing.T) {
	decs := []float64{1.1, 1.5, 2.0, 2.5, 3.0, 5.0, 10.0, 50.0}
	prev := DecimalToImplied(decs[0])
	for _, d := range decs[1:] {
		cur := DecimalToImplied(d)
		if cur >= prev {
			t.Errorf("DecimalToImplied not decreasing: f(%v)=%v >= previous %v", d, cur, prev)
		}
		prev = cur
	}
}

func TestParlayOdds(t *testing.T) {
	sel := []decimal.Decimal{
		decimal.NewFromFloat(1.8),
		decimal.NewFromFloat(1.85),
	}
	combined := ParlayOdds(sel)
	if !combined.Equal(decimal.NewFromFloat(3.33)) {
		t.Errorf("ParlayOdds([1.8 1.85]) = %s, want 3.33", combined)
	}

	if !ParlayOdds(nil).IsZero() {
		t.Errorf("ParlayOdds(nil) = %s, want 0", ParlayOdds(nil))
	}
}

func TestPotentialPayout(t *testing.T) {
	stake := decimal.NewFromInt(10)
	dec := decimal.NewFromFloat(3.33)

	payout := PotentialPayout(stake, dec)
	if !payout.Equal(decimal.NewFromFloat(33.3)) {
		t.Errorf("PotentialPayout(10, 3.33) = %s, want 33.3", payout)
	}

	profit := Profit(stake, dec)
	if !profit.Equal(decimal.NewFromFloat(23.3)) {
		t.Errorf("Profit(10, 3.33) = %s, want 23.3", profit)
	}
}

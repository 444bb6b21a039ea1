// Package odds converts between odds representations and computes payouts.
// Decimal odds are the internal representation; every other format converts
// to or from decimal.
//
// Conversion functions never return an error: malformed input degrades to
// DefaultDecimal (2.0, an even-money price) so the values always render.
package odds

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultDecimal is the even-money fallback for unparseable input.
const DefaultDecimal = 2.0

// fraction is one entry of the canonical fractional price ladder.
type fraction struct {
	num, den int
}

func (f fraction) value() float64 {
	return float64(f.num) / float64(f.den)
}

func (f fraction) String() string {
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

// fractionTable is the canonical ladder of UK fractional prices. Real-world
// fractional odds cluster around these values; the table is searched before
// falling back to a generic reduction, which would otherwise print 6/4 as
// 3/2-adjacent noise like 149/100. The list is fixed: display snapshots
// depend on its exact output.
var fractionTable = []fraction{
	{1, 10}, {1, 8}, {1, 6}, {1, 5}, {2, 9}, {1, 4}, {2, 7}, {3, 10},
	{1, 3}, {7, 20}, {4, 11}, {2, 5}, {4, 9}, {9, 20}, {1, 2}, {8, 15},
	{4, 7}, {3, 5}, {8, 13}, {4, 6}, {7, 10}, {8, 11}, {4, 5}, {5, 6},
	{9, 10}, {10, 11}, {1, 1}, {21, 20}, {11, 10}, {6, 5}, {5, 4},
	{13, 10}, {11, 8}, {7, 5}, {29, 20}, {3, 2}, {8, 5}, {13, 8},
	{17, 10}, {7, 4}, {9, 5}, {15, 8}, {2, 1}, {21, 10}, {85, 40},
	{11, 5}, {9, 4}, {12, 5}, {5, 2}, {13, 5}, {11, 4}, {14, 5},
	{3, 1}, {16, 5}, {10, 3}, {7, 2}, {15, 4}, {4, 1}, {9, 2},
	{5, 1}, {11, 2}, {6, 1}, {13, 2}, {7, 1}, {15, 2}, {8, 1},
	{17, 2}, {9, 1}, {10, 1}, {11, 1}, {12, 1}, {14, 1}, {16, 1},
	{18, 1}, {20, 1}, {25, 1}, {33, 1}, {40, 1}, {50, 1}, {66, 1},
	{80, 1}, {100, 1},
}

// fractionTolerance is the maximum absolute error for a ladder match.
const fractionTolerance = 0.01

// DecimalToFractional converts decimal odds to a fractional "N/D" string.
// Decimal 2.50 -> "3/2", 3.00 -> "2/1". Values at or below 1.0 yield "0/1".
func DecimalToFractional(dec float64) string {
	if math.IsNaN(dec) || dec <= 1 {
		return "0/1"
	}

	num := dec - 1

	best := fractionTable[0]
	bestErr := math.Abs(best.value() - num)
	for _, f := range fractionTable[1:] {
		if err := math.Abs(f.value() - num); err < bestErr {
			best, bestErr = f, err
		}
	}
	if bestErr <= fractionTolerance {
		return best.String()
	}

	// No canonical price close enough: reduce round(num*100)/100.
	n := int(math.Round(num * 100))
	d := 100
	g := gcd(n, d)
	return fmt.Sprintf("%d/%d", n/g, d/g)
}

// DecimalToAmerican converts decimal odds to an American odds string.
// Decimal 2.50 -> "+150", 1.50 -> "-200". Values at or below 1.0 floor to
// "+100".
func DecimalToAmerican(dec float64) string {
	switch {
	case math.IsNaN(dec) || dec <= 1:
		return "+100"
	case dec >= 2:
		return fmt.Sprintf("+%d", int(math.Round((dec-1)*100)))
	default:
		return strconv.Itoa(int(math.Round(-100 / (dec - 1))))
	}
}

// DecimalToImplied converts decimal odds to an implied probability percent
// with two decimals. Decimal 2.50 -> 40.00. Non-positive input yields 0.
func DecimalToImplied(dec float64) float64 {
	if math.IsNaN(dec) || dec <= 0 {
		return 0
	}
	return math.Round((1/dec)*10000) / 100
}

// AmericanToDecimal parses American odds text ("+150", "-200") into decimal
// odds rounded to three places. Unparseable or zero input yields
// DefaultDecimal.
func AmericanToDecimal(american string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(american, "+")), 64)
	if err != nil || math.IsNaN(v) || v == 0 {
		return DefaultDecimal
	}
	if v > 0 {
		return round3(v/100 + 1)
	}
	return round3(100/math.Abs(v) + 1)
}

// FractionalToDecimal parses fractional odds text ("3/2") into decimal odds
// rounded to three places. Anything but two parseable parts with a non-zero
// denominator yields DefaultDecimal.
func FractionalToDecimal(fractional string) float64 {
	parts := strings.Split(strings.TrimSpace(fractional), "/")
	if len(parts) != 2 {
		return DefaultDecimal
	}
	n, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	d, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return DefaultDecimal
	}
	return round3(n/d + 1)
}

// ImpliedToDecimal converts an implied probability percent (0-100) into
// decimal odds rounded to three places. Non-positive or NaN input yields
// DefaultDecimal.
func ImpliedToDecimal(percent float64) float64 {
	if math.IsNaN(percent) || percent <= 0 {
		return DefaultDecimal
	}
	return round3(100 / percent)
}

// round3 rounds to three decimal places. Payout math downstream needs the
// conversions deterministic, so the precision is fixed rather than
// configurable.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

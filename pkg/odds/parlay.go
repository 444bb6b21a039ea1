package odds

import "github.com/shopspring/decimal"

// ParlayOdds returns the combined decimal odds of a parlay (accumulator):
// the product of all selection odds. An empty slip has no price and returns
// zero.
func ParlayOdds(selections []decimal.Decimal) decimal.Decimal {
	if len(selections) == 0 {
		return decimal.Zero
	}
	combined := decimal.NewFromInt(1)
	for _, s := range selections {
		combined = combined.Mul(s)
	}
	return combined
}

// PotentialPayout returns the total return of a stake at the given decimal
// odds, stake included.
func PotentialPayout(stake, dec decimal.Decimal) decimal.Decimal {
	return stake.Mul(dec)
}

// Profit returns the net win: payout minus stake.
func Profit(stake, dec decimal.Decimal) decimal.Decimal {
	return PotentialPayout(stake, dec).Sub(stake)
}

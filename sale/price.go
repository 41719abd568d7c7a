package sale

import "math/big"

// TierAt returns the 0-based pricing tier after elapsed seconds, clamped to
// the last tier.
func (p PricingRules) TierAt(elapsed uint64) uint64 {
	tier := elapsed / p.StepInterval
	if last := p.NumTiers() - 1; tier > last {
		return last
	}
	return tier
}

// PriceAt computes the unit price after elapsed seconds since the auction
// start: StartPrice - PriceStep*tier, floored at EndPrice for any elapsed at
// or past the last tier boundary. Pure; the result is a fresh big.Int.
func (p PricingRules) PriceAt(elapsed uint64) *big.Int {
	tier := p.TierAt(elapsed)
	dec := new(big.Int).Mul(p.PriceStep, new(big.Int).SetUint64(tier))
	return dec.Sub(p.StartPrice, dec)
}

// PriceAtTier returns the exact unit price of a tier, clamped like TierAt.
func (p PricingRules) PriceAtTier(tier uint64) *big.Int {
	if last := p.NumTiers() - 1; tier > last {
		tier = last
	}
	dec := new(big.Int).Mul(p.PriceStep, new(big.Int).SetUint64(tier))
	return dec.Sub(p.StartPrice, dec)
}

// Pricing selects the pricing rules for a currency.
func (r Rules) Pricing(c Currency) PricingRules {
	if c == Stars {
		return r.Stars
	}
	return r.Eth
}

package domain

import "math"

// DefaultTargetMargin is the gross margin the sales price targets.
const DefaultTargetMargin = 0.30

// PriceForMargin computes the sale price that yields the target gross margin
// over the manufacturing cost: (price - cost) / price = margin.
func PriceForMargin(cost, margin float64) float64 {
	if margin >= 1 || margin < 0 {
		return cost
	}
	return cost / (1 - margin)
}

// ApplyMarketVariance scales a base price by a multiplicative market factor,
// variance being the signed fraction (for example -0.07 for -7%), and rounds
// to cents.
func ApplyMarketVariance(basePrice, variance float64) float64 {
	return math.Round(basePrice*(1+variance)*100) / 100
}

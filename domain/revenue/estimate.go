package revenue

import "strings"

// EstimateInput holds the revenue estimator form inputs.
type EstimateInput struct {
	Category     string
	Competition  string // "low", "medium", "high"
	Monetization string // "subscription", "one_time", "ads", "freemium"
	MarketSize   string // "small", "medium", "large"
	PriceUSD     float64
	Downloads    int64 // expected monthly downloads
}

// Estimate is the deterministic estimator output.
type Estimate struct {
	MonthlyLow  int64
	MonthlyHigh int64
	Bracket     Bracket
	Confidence  string // "low", "medium", "high"
}

// Rule tables. These mirror the estimator's published bands; they are
// deliberately coarse and deterministic.

var categoryMultiplier = map[string]float64{
	"health":       1.3,
	"finance":      1.5,
	"productivity": 1.2,
	"education":    1.0,
	"lifestyle":    0.9,
	"games":        0.8,
	"utilities":    0.7,
}

var competitionFactor = map[string]float64{
	"low":    1.4,
	"medium": 1.0,
	"high":   0.6,
}

var marketFactor = map[string]float64{
	"small":  0.7,
	"medium": 1.0,
	"large":  1.3,
}

// conversionRate is the fraction of downloads expected to pay, per
// monetization model.
var conversionRate = map[string]float64{
	"subscription": 0.03,
	"freemium":     0.02,
	"one_time":     0.05,
	"ads":          1.0, // every download "pays" the effective ad value
}

// adsRevenuePerUser is the effective monthly ad revenue per active user.
const adsRevenuePerUser = 0.15

// Calculate produces a monthly revenue estimate from the rule tables.
// This is a PURE function; unknown table keys use a neutral 1.0 factor
// (0.02 conversion for unknown monetization) so the function is total.
func Calculate(in EstimateInput) Estimate {
	price := in.PriceUSD
	conv := lookup(conversionRate, in.Monetization, 0.02)
	if strings.EqualFold(in.Monetization, "ads") {
		price = adsRevenuePerUser
	}
	if price <= 0 {
		price = 1
	}
	downloads := in.Downloads
	if downloads < 0 {
		downloads = 0
	}

	base := float64(downloads) * conv * price
	base *= lookup(categoryMultiplier, in.Category, 1.0)
	base *= lookup(competitionFactor, in.Competition, 1.0)
	base *= lookup(marketFactor, in.MarketSize, 1.0)

	low := int64(base * 0.6)
	high := int64(base * 1.5)

	return Estimate{
		MonthlyLow:  low,
		MonthlyHigh: high,
		Bracket:     Bracket{Low: low, High: high},
		Confidence:  confidence(in),
	}
}

// confidence degrades when inputs fall outside the rule tables.
func confidence(in EstimateInput) string {
	known := 0
	if _, ok := categoryMultiplier[strings.ToLower(in.Category)]; ok {
		known++
	}
	if _, ok := competitionFactor[strings.ToLower(in.Competition)]; ok {
		known++
	}
	if _, ok := marketFactor[strings.ToLower(in.MarketSize)]; ok {
		known++
	}
	switch known {
	case 3:
		return "high"
	case 2:
		return "medium"
	default:
		return "low"
	}
}

func lookup(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[strings.ToLower(key)]; ok {
		return v
	}
	return fallback
}

package revenue

import "testing"

func TestCalculate_SubscriptionBaseline(t *testing.T) {
	in := EstimateInput{
		Category:     "education",
		Competition:  "medium",
		Monetization: "subscription",
		MarketSize:   "medium",
		PriceUSD:     10,
		Downloads:    10_000,
	}

	// 10000 downloads * 0.03 conversion * $10 = $3000, neutral factors.
	got := Calculate(in)

	if got.MonthlyLow != 1800 { // 3000 * 0.6
		t.Errorf("MonthlyLow = %d, want 1800", got.MonthlyLow)
	}
	if got.MonthlyHigh != 4500 { // 3000 * 1.5
		t.Errorf("MonthlyHigh = %d, want 4500", got.MonthlyHigh)
	}
	if got.Confidence != "high" {
		t.Errorf("Confidence = %q, want high", got.Confidence)
	}
	if got.Bracket.Low != got.MonthlyLow || got.Bracket.High != got.MonthlyHigh {
		t.Errorf("bracket must mirror the low/high bounds")
	}
}

func TestCalculate_FactorsApply(t *testing.T) {
	base := EstimateInput{
		Category:     "education",
		Competition:  "medium",
		Monetization: "subscription",
		MarketSize:   "medium",
		PriceUSD:     10,
		Downloads:    10_000,
	}
	lowComp := base
	lowComp.Competition = "low"

	baseline := Calculate(base)
	boosted := Calculate(lowComp)

	if boosted.MonthlyHigh <= baseline.MonthlyHigh {
		t.Errorf("low competition should raise the estimate: %d vs %d",
			boosted.MonthlyHigh, baseline.MonthlyHigh)
	}

	highComp := base
	highComp.Competition = "high"
	if got := Calculate(highComp); got.MonthlyHigh >= baseline.MonthlyHigh {
		t.Errorf("high competition should lower the estimate")
	}
}

func TestCalculate_AdsModelIgnoresPrice(t *testing.T) {
	in := EstimateInput{
		Category:     "games",
		Competition:  "high",
		Monetization: "ads",
		MarketSize:   "large",
		PriceUSD:     99, // ignored for ads
		Downloads:    100_000,
	}
	got := Calculate(in)

	same := in
	same.PriceUSD = 1
	if got2 := Calculate(same); got2 != got {
		t.Errorf("ads estimate must not depend on price: %+v vs %+v", got, got2)
	}
	if got.MonthlyLow <= 0 {
		t.Errorf("expected positive estimate for 100K downloads on ads")
	}
}

func TestCalculate_TotalOnUnknownInputs(t *testing.T) {
	got := Calculate(EstimateInput{
		Category:     "underwater-basket-weaving",
		Competition:  "extreme",
		Monetization: "barter",
		MarketSize:   "galactic",
		PriceUSD:     -3,
		Downloads:    -100,
	})

	if got.MonthlyLow != 0 || got.MonthlyHigh != 0 {
		t.Errorf("expected zero estimate for zero downloads, got %+v", got)
	}
	if got.Confidence != "low" {
		t.Errorf("expected low confidence for unknown inputs, got %q", got.Confidence)
	}
}

func TestCalculate_CaseInsensitiveTables(t *testing.T) {
	lower := Calculate(EstimateInput{Category: "finance", Competition: "low", Monetization: "subscription", MarketSize: "large", PriceUSD: 5, Downloads: 1000})
	upper := Calculate(EstimateInput{Category: "Finance", Competition: "LOW", Monetization: "Subscription", MarketSize: "Large", PriceUSD: 5, Downloads: 1000})

	if lower != upper {
		t.Errorf("rule table lookups must be case-insensitive: %+v vs %+v", lower, upper)
	}
}

package pricing

import (
	"math"
	"testing"
)

func TestMonthlyCostMonthlyIsIdentity(t *testing.T) {
	for _, amount := range []float64{0, 1, 119, 999.50} {
		if got := MonthlyCost(amount, "monthly"); got != amount {
			t.Fatalf("MonthlyCost(%v, monthly) = %v, want %v", amount, got, amount)
		}
	}
}

func TestMonthlyCostYearly(t *testing.T) {
	if got := MonthlyCost(1200, "yearly"); got != 100 {
		t.Fatalf("MonthlyCost(1200, yearly) = %v, want 100", got)
	}
	if got := MonthlyCost(1200, "Annual"); got != 100 {
		t.Fatalf("MonthlyCost(1200, Annual) = %v, want 100", got)
	}
}

func TestMonthlyCostQuarterly(t *testing.T) {
	if got := MonthlyCost(300, "quarterly"); got != 100 {
		t.Fatalf("MonthlyCost(300, quarterly) = %v, want 100", got)
	}
}

func TestMonthlyCostHalfYearly(t *testing.T) {
	if got := MonthlyCost(600, "half-yearly"); got != 100 {
		t.Fatalf("MonthlyCost(600, half-yearly) = %v, want 100", got)
	}
}

func TestMonthlyCostDayCountPlans(t *testing.T) {
	got := MonthlyCost(239, "28 days")
	want := 239 * (365.0 / 28.0) / 12.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("MonthlyCost(239, 28 days) = %v, want %v", got, want)
	}

	got = MonthlyCost(666, "84-day")
	want = 666 * (365.0 / 84.0) / 12.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("MonthlyCost(666, 84-day) = %v, want %v", got, want)
	}
}

func TestMonthlyCostUnknownCycleFallsBack(t *testing.T) {
	if got := MonthlyCost(50, "fortnightly"); got != 50 {
		t.Fatalf("MonthlyCost(50, fortnightly) = %v, want 50", got)
	}
}

func TestMonthlyCostNegativeAmountFloored(t *testing.T) {
	if got := MonthlyCost(-10, "monthly"); got != 0 {
		t.Fatalf("MonthlyCost(-10, monthly) = %v, want 0", got)
	}
}

func TestSymbol(t *testing.T) {
	cases := map[Currency]string{
		CurrencyINR:     "₹",
		CurrencyUSD:     "$",
		CurrencyEUR:     "€",
		CurrencyGBP:     "£",
		Currency("AUD"): "AUD",
	}
	for currency, want := range cases {
		if got := Symbol(currency); got != want {
			t.Fatalf("Symbol(%s) = %q, want %q", currency, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(CurrencyINR, 500); got != "₹500" {
		t.Fatalf("FormatAmount = %q, want ₹500", got)
	}
	if got := FormatAmount(CurrencyINR, 99.5); got != "₹99.50" {
		t.Fatalf("FormatAmount = %q, want ₹99.50", got)
	}
}

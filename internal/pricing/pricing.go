// Package pricing normalizes subscription costs across billing cycles and
// holds the shared savings arithmetic used by the recommendation engine.
package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Currency is the closed set of reporting currencies.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Billing cycle descriptors accepted by MonthlyCost. Free-text variants from
// email-detected subscriptions are handled by the fallback parsing below.
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
	CycleCustom    = "custom"
)

var dayCountRe = regexp.MustCompile(`^(\d+)[\s-]*days?$`)

// MonthlyCost converts an amount billed on the given cycle to its equivalent
// monthly figure. Unrecognized cycles are treated as already monthly rather
// than rejected, so one odd record cannot stall the rest of the pipeline.
func MonthlyCost(amount float64, cycle string) float64 {
	if amount < 0 {
		amount = 0
	}

	switch normalizeCycle(cycle) {
	case CycleMonthly, "":
		return amount
	case CycleYearly, "annual", "annually", "12-month":
		return amount / 12
	case CycleQuarterly, "3-month":
		return amount / 3
	case "half-yearly", "halfyearly", "6-month", "semi-annual":
		return amount / 6
	}

	if days, ok := parseDayCount(cycle); ok {
		// Day-count plans (28-day, 84-day telecom packs) recur 365/days times
		// a year.
		return amount * (365.0 / float64(days)) / 12.0
	}

	return amount
}

func normalizeCycle(cycle string) string {
	return strings.ToLower(strings.TrimSpace(cycle))
}

func parseDayCount(cycle string) (int, bool) {
	m := dayCountRe.FindStringSubmatch(normalizeCycle(cycle))
	if m == nil {
		return 0, false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days <= 0 {
		return 0, false
	}
	return days, true
}

// AnnualSavings projects a monthly savings figure over a year.
func AnnualSavings(monthly float64) float64 {
	return monthly * 12
}

// Symbol returns the display symbol for a reporting currency. The switch is
// exhaustive over the Currency constants; anything else falls back to the
// ISO code itself.
func Symbol(c Currency) string {
	switch c {
	case CurrencyINR:
		return "₹"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	case CurrencyGBP:
		return "£"
	default:
		return string(c)
	}
}

// FormatAmount renders an amount for recommendation text, dropping the
// fractional part when it is a whole figure.
func FormatAmount(c Currency, amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%s%d", Symbol(c), int64(amount))
	}
	return fmt.Sprintf("%s%.2f", Symbol(c), amount)
}

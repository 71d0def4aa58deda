package service

import (
	"fmt"
	"strings"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
)

// buildReasoning renders the deterministic explanation shown with a bundle
// candidate: savings framing first, then exactly which services are covered,
// what the bundle adds on top, data perks, and any curated catalog notes.
func buildReasoning(bundle bundledomain.TelecomBundle, match bundledomain.BundleMatch, extraServices []string) string {
	var parts []string

	plan := fmt.Sprintf("%s %s", bundle.Provider, bundle.PlanName)
	savings := pricing.FormatAmount(pricing.CurrencyINR, absAmount(match.MonthlySavings))

	switch {
	case match.MonthlySavings >= bigSavingsMark:
		parts = append(parts, fmt.Sprintf("Big saving: %s would cut your monthly spend by %s.", plan, savings))
	case match.MonthlySavings > 0:
		parts = append(parts, fmt.Sprintf("%s saves you %s every month.", plan, savings))
	default:
		parts = append(parts, fmt.Sprintf("%s costs %s more per month but consolidates your subscriptions.", plan, savings))
	}

	parts = append(parts, fmt.Sprintf("It covers %s, which you currently pay for separately.",
		joinNames(match.MatchedServiceNames)))

	if len(extraServices) > 0 {
		parts = append(parts, fmt.Sprintf("You would also get %s on top.", joinNames(extraServices)))
	}

	if bundle.DataAllowance != nil && *bundle.DataAllowance != "" {
		allowance := *bundle.DataAllowance
		if strings.Contains(strings.ToLower(allowance), "unlimited") {
			parts = append(parts, fmt.Sprintf("Includes %s.", allowance))
		} else {
			parts = append(parts, fmt.Sprintf("Comes with %s data.", allowance))
		}
	}

	if bundle.Notes != nil && *bundle.Notes != "" {
		parts = append(parts, *bundle.Notes)
	}

	return strings.Join(parts, " ")
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func absAmount(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

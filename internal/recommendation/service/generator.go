package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/servicematch"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

// Cancel fires below this monthly-hours mark and always wins over a
// downgrade for the same subscription.
const (
	cancelThresholdHours = 2.0
	cancelMinConfidence  = 0.70
	cancelMaxConfidence  = 0.98
)

// Generator turns (subscription, usage) pairs into recommendation candidates.
// It is pure: persistence, expiry and status transitions happen elsewhere.
type Generator struct {
	matcher *servicematch.Matcher
	rules   []recdomain.DowngradeRule
}

// NewGenerator builds a generator over the given matcher and downgrade rule
// table.
func NewGenerator(matcher *servicematch.Matcher, rules []recdomain.DowngradeRule) *Generator {
	return &Generator{matcher: matcher, rules: rules}
}

// ForSubscription evaluates one subscription against its latest usage
// signal. Current policy emits at most one recommendation: cancel when usage
// is near zero, otherwise a service-specific downgrade when one applies.
func (g *Generator) ForSubscription(sub subscriptiondomain.Subscription, usage *usagedomain.ServiceUsage) []recdomain.OptimizationRecommendation {
	if !sub.IsActive() || usage == nil {
		return nil
	}

	monthlyHours := usage.MonthlyHours()
	monthlyCost := sub.MonthlyCost()
	name := sub.DisplayName()

	if monthlyHours < cancelThresholdHours {
		return []recdomain.OptimizationRecommendation{g.cancelRecommendation(sub, name, monthlyCost, monthlyHours)}
	}

	for _, rule := range g.rules {
		if !g.matcher.NamesOverlap([]string{rule.ServiceName}, name) {
			continue
		}
		if monthlyHours >= rule.ThresholdHours {
			continue
		}
		return []recdomain.OptimizationRecommendation{g.downgradeRecommendation(sub, rule, monthlyCost, monthlyHours)}
	}

	return nil
}

func (g *Generator) cancelRecommendation(sub subscriptiondomain.Subscription, name string, monthlyCost, monthlyHours float64) recdomain.OptimizationRecommendation {
	// Confidence runs linearly from 0.70 at the threshold down to 0.98 at
	// zero usage.
	confidence := cancelMaxConfidence - (monthlyHours/cancelThresholdHours)*(cancelMaxConfidence-cancelMinConfidence)

	subID := sub.ID
	return recdomain.OptimizationRecommendation{
		SubscriptionID: &subID,
		Type:           recdomain.TypeCancel,
		Title:          fmt.Sprintf("Cancel %s", name),
		Description: fmt.Sprintf(
			"You used %s for about %.1f hours last month. Cancelling frees up %s every month.",
			name, monthlyHours, pricing.FormatAmount(sub.Currency, monthlyCost),
		),
		CurrentCost:     monthlyCost,
		OptimizedCost:   0,
		MonthlySavings:  monthlyCost,
		AnnualSavings:   pricing.AnnualSavings(monthlyCost),
		ConfidenceScore: clampConfidence(confidence),
		Details: datatypes.JSONMap{
			"monthly_usage_hours": monthlyHours,
			"threshold_hours":     cancelThresholdHours,
		},
	}
}

func (g *Generator) downgradeRecommendation(sub subscriptiondomain.Subscription, rule recdomain.DowngradeRule, monthlyCost, monthlyHours float64) recdomain.OptimizationRecommendation {
	confidence := rule.MaxConfidence - (monthlyHours/rule.ThresholdHours)*(rule.MaxConfidence-rule.MinConfidence)

	// Ad exposure estimate makes the free-tier trade-off concrete in the
	// recommendation text.
	adEstimate := int(math.Round(monthlyHours * rule.AdsPerHour))

	subID := sub.ID
	return recdomain.OptimizationRecommendation{
		SubscriptionID: &subID,
		Type:           recdomain.TypeDowngrade,
		Title:          fmt.Sprintf("Switch to %s", rule.FreeTierName),
		Description: fmt.Sprintf(
			"At %.1f listening hours a month, %s covers you: expect around %d ads a month and keep %s in your pocket.",
			monthlyHours, rule.FreeTierName, adEstimate, pricing.FormatAmount(sub.Currency, monthlyCost),
		),
		CurrentCost:     monthlyCost,
		OptimizedCost:   0,
		MonthlySavings:  monthlyCost,
		AnnualSavings:   pricing.AnnualSavings(monthlyCost),
		ConfidenceScore: clampConfidence(confidence),
		Details: datatypes.JSONMap{
			"monthly_usage_hours": monthlyHours,
			"threshold_hours":     rule.ThresholdHours,
			"free_tier":           rule.FreeTierName,
			"estimated_ads":       adEstimate,
		},
	}
}

// ForAll evaluates a user's full subscription set and returns candidates
// sorted by annual savings, highest first.
func (g *Generator) ForAll(subs []subscriptiondomain.Subscription, usageBySub map[snowflake.ID]*usagedomain.ServiceUsage) []recdomain.OptimizationRecommendation {
	var recs []recdomain.OptimizationRecommendation
	for _, sub := range subs {
		recs = append(recs, g.ForSubscription(sub, usageBySub[sub.ID])...)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].AnnualSavings > recs[j].AnnualSavings
	})
	return recs
}

// TotalSavings sums monthly and annual savings across a recommendation list.
func TotalSavings(recs []recdomain.OptimizationRecommendation) recdomain.SavingsSummary {
	summary := recdomain.SavingsSummary{Count: len(recs)}
	for _, rec := range recs {
		summary.MonthlySavings += rec.MonthlySavings
		summary.AnnualSavings += rec.AnnualSavings
	}
	return summary
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

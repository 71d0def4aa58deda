package service

import (
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/servicematch"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	table, err := servicematch.DefaultAliasTable()
	if err != nil {
		t.Fatalf("default alias table: %v", err)
	}
	return NewGenerator(servicematch.NewMatcher(table), recdomain.DefaultDowngradeRules())
}

func testSubscription(id snowflake.ID, name string, cost float64) subscriptiondomain.Subscription {
	return subscriptiondomain.Subscription{
		ID:           id,
		UserID:       1,
		ServiceName:  &name,
		Cost:         cost,
		Currency:     pricing.CurrencyINR,
		BillingCycle: subscriptiondomain.CycleMonthly,
		Status:       subscriptiondomain.StatusActive,
	}
}

// usageOverDays builds a usage row observed over the given number of days.
func usageOverDays(subID snowflake.ID, hours float64, days int) *usagedomain.ServiceUsage {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &usagedomain.ServiceUsage{
		ID:             subID + 1000,
		UserID:         1,
		SubscriptionID: subID,
		UsageHours:     hours,
		PeriodStart:    start,
		PeriodEnd:      start.AddDate(0, 0, days),
	}
}

func TestForSubscriptionCancelBeatsDowngrade(t *testing.T) {
	g := newTestGenerator(t)

	// 1h over a 30-day window is under both the cancel and the Spotify
	// downgrade thresholds; cancel must win.
	sub := testSubscription(1, "Spotify", 119)
	recs := g.ForSubscription(sub, usageOverDays(1, 1, 30))

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Type != recdomain.TypeCancel {
		t.Fatalf("expected cancel, got %s", rec.Type)
	}
	if rec.MonthlySavings != 119 {
		t.Errorf("monthly savings = %v, want 119", rec.MonthlySavings)
	}
	if rec.AnnualSavings != 119*12 {
		t.Errorf("annual savings = %v, want %v", rec.AnnualSavings, 119*12)
	}

	// Confidence interpolates from 0.98 at zero hours to 0.70 at the
	// threshold; 1h of 2h sits exactly in the middle.
	if math.Abs(rec.ConfidenceScore-0.84) > 1e-9 {
		t.Errorf("confidence = %v, want 0.84", rec.ConfidenceScore)
	}
}

func TestForSubscriptionSpotifyDowngrade(t *testing.T) {
	g := newTestGenerator(t)

	// 3h over 15 days extrapolates to 6h/month: above the cancel bar,
	// under the Spotify free-tier bar.
	sub := testSubscription(2, "Spotify Premium", 119)
	recs := g.ForSubscription(sub, usageOverDays(2, 3, 15))

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Type != recdomain.TypeDowngrade {
		t.Fatalf("expected downgrade, got %s", rec.Type)
	}
	if rec.Title != "Switch to Spotify Free" {
		t.Errorf("title = %q", rec.Title)
	}
	if got := rec.Details["estimated_ads"]; got != 12 {
		t.Errorf("estimated_ads = %v, want 12", got)
	}
	want := 0.95 - (6.0/10.0)*(0.95-0.50)
	if math.Abs(rec.ConfidenceScore-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", rec.ConfidenceScore, want)
	}
}

func TestForSubscriptionHealthyUsage(t *testing.T) {
	g := newTestGenerator(t)

	sub := testSubscription(3, "Netflix", 649)
	if recs := g.ForSubscription(sub, usageOverDays(3, 45, 30)); recs != nil {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

func TestForSubscriptionSkipsInactiveAndMissingUsage(t *testing.T) {
	g := newTestGenerator(t)

	paused := testSubscription(4, "Netflix", 649)
	paused.Status = subscriptiondomain.StatusPaused
	if recs := g.ForSubscription(paused, usageOverDays(4, 0, 30)); recs != nil {
		t.Fatalf("paused subscription produced recommendations")
	}

	active := testSubscription(5, "Netflix", 649)
	if recs := g.ForSubscription(active, nil); recs != nil {
		t.Fatalf("missing usage produced recommendations")
	}
}

func TestForSubscriptionDowngradeOnlyMatchesRuleService(t *testing.T) {
	g := newTestGenerator(t)

	// 6h/month on a non-music service is above the cancel bar and matches
	// no downgrade rule.
	sub := testSubscription(6, "Netflix", 649)
	if recs := g.ForSubscription(sub, usageOverDays(6, 6, 30)); recs != nil {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

func TestForAllSortsByAnnualSavings(t *testing.T) {
	g := newTestGenerator(t)

	subs := []subscriptiondomain.Subscription{
		testSubscription(10, "Spotify", 119),
		testSubscription(11, "Netflix", 649),
		testSubscription(12, "Disney+ Hotstar", 299),
	}
	usage := map[snowflake.ID]*usagedomain.ServiceUsage{
		10: usageOverDays(10, 1, 30),
		11: usageOverDays(11, 0.5, 30),
		12: usageOverDays(12, 1.5, 30),
	}

	recs := g.ForAll(subs, usage)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].AnnualSavings > recs[i-1].AnnualSavings {
			t.Fatalf("recommendations not sorted by annual savings: %v before %v",
				recs[i-1].AnnualSavings, recs[i].AnnualSavings)
		}
	}
	if recs[0].MonthlySavings != 649 {
		t.Errorf("top recommendation savings = %v, want 649", recs[0].MonthlySavings)
	}
}

func TestTotalSavings(t *testing.T) {
	recs := []recdomain.OptimizationRecommendation{
		{MonthlySavings: 119, AnnualSavings: 1428},
		{MonthlySavings: 649, AnnualSavings: 7788},
	}
	summary := TotalSavings(recs)
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}
	if summary.MonthlySavings != 768 {
		t.Errorf("monthly = %v, want 768", summary.MonthlySavings)
	}
	if summary.AnnualSavings != 9216 {
		t.Errorf("annual = %v, want 9216", summary.AnnualSavings)
	}
}

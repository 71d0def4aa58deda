package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/cache"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/servicematch"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/repository"
)

// Matching and scoring constants. The confidence weights and normalization
// caps are deliberately frozen: they are heuristics whose exact values users
// already see reflected in recommendation ordering.
const (
	minMatchedSubscriptions = 2
	highMatchPercentage     = 80.0
	savingsTieBand          = 50.0

	confidenceWeightMatch   = 0.4
	confidenceWeightSavings = 0.3
	confidenceWeightValue   = 0.3
	savingsCap              = 1000.0
	valueScoreCap           = 25.0

	bigSavingsMark = 500.0

	catalogCacheKey = "bundle_catalog"
	catalogCacheTTL = 5 * time.Minute
	matchCacheTTL   = 10 * time.Minute
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Matcher    *servicematch.Matcher
	SubSvc     subscriptiondomain.Service
	MatchCache cache.ByteStore
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	matcher    *servicematch.Matcher
	subSvc     subscriptiondomain.Service
	bundlerepo repository.Repository[bundledomain.TelecomBundle]
	recrepo    repository.Repository[bundledomain.BundleRecommendation]

	catalog    *cache.TTLCache[string, []bundledomain.TelecomBundle]
	matchCache cache.ByteStore
}

func NewService(p ServiceParam) bundledomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("bundle.service"),

		genID:      p.GenID,
		matcher:    p.Matcher,
		subSvc:     p.SubSvc,
		bundlerepo: repository.ProvideStore[bundledomain.TelecomBundle](p.DB),
		recrepo:    repository.ProvideStore[bundledomain.BundleRecommendation](p.DB),

		catalog:    cache.NewTTLCache[string, []bundledomain.TelecomBundle](),
		matchCache: p.MatchCache,
	}
}

// FindMatches runs the full matching pipeline for one user. Any load failure
// degrades to an empty result with OK=false; the matcher never raises out of
// this path.
func (s *Service) FindMatches(ctx context.Context, userID snowflake.ID, opts bundledomain.MatchOptions) bundledomain.MatchResult {
	opts = opts.WithDefaults()

	if opts.IsDefault() {
		if cached, ok := s.cachedMatches(ctx, userID); ok {
			return bundledomain.MatchResult{Matches: cached, OK: true}
		}
	}

	subs, err := s.subSvc.ListActive(ctx, userID)
	if err != nil {
		s.log.Warn("subscription load failed, degrading to no matches",
			zap.String("user_id", userID.String()), zap.Error(err))
		return bundledomain.MatchResult{OK: false}
	}
	if len(subs) < minMatchedSubscriptions {
		return bundledomain.MatchResult{OK: true}
	}

	bundles, err := s.loadCatalog(ctx)
	if err != nil {
		s.log.Warn("bundle catalog load failed, degrading to no matches",
			zap.String("user_id", userID.String()), zap.Error(err))
		return bundledomain.MatchResult{OK: false}
	}

	matches := s.computeMatches(subs, bundles, opts)

	if opts.IsDefault() {
		s.storeMatches(ctx, userID, matches)
	}
	return bundledomain.MatchResult{Matches: matches, OK: true}
}

func (s *Service) computeMatches(subs []subscriptiondomain.Subscription, bundles []bundledomain.TelecomBundle, opts bundledomain.MatchOptions) []bundledomain.BundleMatch {
	totalActive := len(subs)

	var candidates []bundledomain.BundleMatch
	for _, bundle := range bundles {
		candidate, ok := s.matchBundle(bundle, subs, totalActive)
		if !ok {
			continue
		}
		if candidate.MonthlySavings < opts.MinSavings {
			continue
		}
		if candidate.MatchPercentage < opts.MinMatchPercentage {
			continue
		}
		candidates = append(candidates, candidate)
	}

	rankMatches(candidates)

	if len(candidates) > opts.MaxResults {
		candidates = candidates[:opts.MaxResults]
	}
	return candidates
}

// matchBundle evaluates one bundle against the user's active set. Returns
// false when fewer than two subscriptions overlap: a bundle replacing a
// single subscription is never worth switching for.
func (s *Service) matchBundle(bundle bundledomain.TelecomBundle, subs []subscriptiondomain.Subscription, totalActive int) (bundledomain.BundleMatch, bool) {
	included := []string(bundle.IncludedServices)

	var (
		matchedIDs     []snowflake.ID
		matchedNames   []string
		coveredService = make(map[int]bool, len(included))
		currentCost    float64
	)
	for _, sub := range subs {
		idx, ok := s.matcher.Resolve(sub.DisplayName(), included)
		if !ok {
			continue
		}
		matchedIDs = append(matchedIDs, sub.ID)
		matchedNames = append(matchedNames, included[idx])
		coveredService[idx] = true
		currentCost += sub.MonthlyCost()
	}
	if len(matchedIDs) < minMatchedSubscriptions {
		return bundledomain.BundleMatch{}, false
	}

	var extraServices []string
	for i, name := range included {
		if !coveredService[i] {
			extraServices = append(extraServices, name)
		}
	}

	monthlySavings := currentCost - bundle.MonthlyPrice
	matchPercentage := float64(len(matchedIDs)) / float64(totalActive) * 100

	match := bundledomain.BundleMatch{
		BundleID:               bundle.ID,
		Provider:               bundle.Provider,
		PlanName:               bundle.PlanName,
		MatchedSubscriptionIDs: matchedIDs,
		MatchedServiceNames:    matchedNames,
		CurrentMonthlyCost:     currentCost,
		BundleMonthlyCost:      bundle.MonthlyPrice,
		MonthlySavings:         monthlySavings,
		AnnualSavings:          pricing.AnnualSavings(monthlySavings),
		MatchPercentage:        matchPercentage,
		ConfidenceScore:        confidenceScore(matchPercentage, monthlySavings, bundle.ValueScore),
		RecommendationType:     classifyMatch(matchPercentage, monthlySavings),
	}
	match.Reasoning = buildReasoning(bundle, match, extraServices)
	return match, true
}

// confidenceScore is a weighted blend of coverage, savings and curated
// bundle value, clamped to [0,1].
func confidenceScore(matchPercentage, monthlySavings, valueScore float64) float64 {
	matchComponent := clamp01(matchPercentage / 100)
	savingsComponent := clamp01(monthlySavings / savingsCap)
	valueComponent := clamp01(valueScore / valueScoreCap)

	score := confidenceWeightMatch*matchComponent +
		confidenceWeightSavings*savingsComponent +
		confidenceWeightValue*valueComponent
	return clamp01(score)
}

func classifyMatch(matchPercentage, monthlySavings float64) bundledomain.MatchType {
	if matchPercentage >= highMatchPercentage {
		if monthlySavings < 0 {
			return bundledomain.MatchTypeUpgrade
		}
		return bundledomain.MatchTypeBundle
	}
	return bundledomain.MatchTypeSwitch
}

// rankMatches orders candidates by monthly savings descending, breaking
// near-ties (within the band) by confidence.
func rankMatches(matches []bundledomain.BundleMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if math.Abs(a.MonthlySavings-b.MonthlySavings) <= savingsTieBand {
			return a.ConfidenceScore > b.ConfidenceScore
		}
		return a.MonthlySavings > b.MonthlySavings
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *Service) loadCatalog(ctx context.Context) ([]bundledomain.TelecomBundle, error) {
	if cached, ok := s.catalog.Get(catalogCacheKey); ok {
		return cached, nil
	}

	rows, err := s.bundlerepo.Find(ctx, &bundledomain.TelecomBundle{IsActive: true},
		repository.OrderBy("monthly_price ASC"))
	if err != nil {
		return nil, err
	}

	bundles := make([]bundledomain.TelecomBundle, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		bundles = append(bundles, *row)
	}
	s.catalog.Set(catalogCacheKey, bundles, catalogCacheTTL)
	return bundles, nil
}

func matchCacheKey(userID snowflake.ID) string {
	return fmt.Sprintf("bundle_matches:%s", userID)
}

func (s *Service) cachedMatches(ctx context.Context, userID snowflake.ID) ([]bundledomain.BundleMatch, bool) {
	raw, ok := s.matchCache.Get(ctx, matchCacheKey(userID))
	if !ok {
		return nil, false
	}
	var matches []bundledomain.BundleMatch
	if err := json.Unmarshal(raw, &matches); err != nil {
		s.matchCache.Delete(ctx, matchCacheKey(userID))
		return nil, false
	}
	return matches, true
}

func (s *Service) storeMatches(ctx context.Context, userID snowflake.ID, matches []bundledomain.BundleMatch) {
	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	s.matchCache.Set(ctx, matchCacheKey(userID), raw, matchCacheTTL)
}

// ShouldShowBundleRecommendations gates the feature on having at least two
// active subscriptions. Errors degrade to hiding the feature.
func (s *Service) ShouldShowBundleRecommendations(ctx context.Context, userID snowflake.ID) bool {
	count, err := s.subSvc.CountActive(ctx, userID)
	if err != nil {
		s.log.Warn("active subscription count failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return false
	}
	return count >= minMatchedSubscriptions
}

// RefreshForUser recomputes default-option matches and replaces the user's
// pending bundle recommendations in one transaction.
func (s *Service) RefreshForUser(ctx context.Context, userID snowflake.ID) error {
	if userID == 0 {
		return bundledomain.ErrInvalidUser
	}

	s.matchCache.Delete(ctx, matchCacheKey(userID))

	result := s.FindMatches(ctx, userID, bundledomain.MatchOptions{})
	if !result.OK {
		return bundledomain.ErrCatalogUnavailable
	}

	now := time.Now().UTC()
	records := make([]*bundledomain.BundleRecommendation, 0, len(result.Matches))
	for _, match := range result.Matches {
		ids := make(datatypes.JSONSlice[string], 0, len(match.MatchedSubscriptionIDs))
		for _, id := range match.MatchedSubscriptionIDs {
			ids = append(ids, id.String())
		}
		records = append(records, &bundledomain.BundleRecommendation{
			ID:                     s.genID.Generate(),
			UserID:                 userID,
			BundleID:               match.BundleID,
			MatchedSubscriptionIDs: ids,
			CurrentMonthlyCost:     match.CurrentMonthlyCost,
			BundleMonthlyCost:      match.BundleMonthlyCost,
			MonthlySavings:         match.MonthlySavings,
			AnnualSavings:          match.AnnualSavings,
			MatchPercentage:        match.MatchPercentage,
			ConfidenceScore:        match.ConfidenceScore,
			Reasoning:              match.Reasoning,
			RecommendationType:     match.RecommendationType,
			Status:                 bundledomain.StatusPending,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND status = ?", userID, bundledomain.StatusPending).
			Delete(&bundledomain.BundleRecommendation{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(records).Error
	})
}

func (s *Service) ListRecommendations(ctx context.Context, userID snowflake.ID) ([]bundledomain.BundleRecommendation, error) {
	if userID == 0 {
		return nil, bundledomain.ErrInvalidUser
	}

	rows, err := s.recrepo.Find(ctx, &bundledomain.BundleRecommendation{UserID: userID},
		repository.OrderBy("monthly_savings DESC"))
	if err != nil {
		return nil, err
	}

	recs := make([]bundledomain.BundleRecommendation, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		recs = append(recs, *row)
	}
	return recs, nil
}

// MarkClicked stamps click tracking and promotes pending rows to viewed.
// Updates are scoped to the owning user.
func (s *Service) MarkClicked(ctx context.Context, userID, recommendationID snowflake.ID) error {
	if userID == 0 {
		return bundledomain.ErrInvalidUser
	}
	if recommendationID == 0 {
		return bundledomain.ErrInvalidID
	}

	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&bundledomain.BundleRecommendation{}).
		Where("id = ? AND user_id = ? AND status = ?", recommendationID, userID, bundledomain.StatusPending).
		Updates(map[string]any{
			"status":     bundledomain.StatusViewed,
			"clicked_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Already viewed/accepted/dismissed: refresh the click timestamp only.
	result = s.db.WithContext(ctx).
		Model(&bundledomain.BundleRecommendation{}).
		Where("id = ? AND user_id = ?", recommendationID, userID).
		Updates(map[string]any{
			"clicked_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bundledomain.ErrNotFound
	}
	return nil
}

// UpdateStatus applies a user-driven accept/dismiss transition from pending
// or viewed.
func (s *Service) UpdateStatus(ctx context.Context, userID, recommendationID snowflake.ID, status bundledomain.BundleRecommendationStatus) error {
	if userID == 0 {
		return bundledomain.ErrInvalidUser
	}
	if recommendationID == 0 {
		return bundledomain.ErrInvalidID
	}
	if status != bundledomain.StatusAccepted && status != bundledomain.StatusDismissed {
		return bundledomain.ErrInvalidStatus
	}

	result := s.db.WithContext(ctx).
		Model(&bundledomain.BundleRecommendation{}).
		Where("id = ? AND user_id = ? AND status IN ?", recommendationID, userID,
			[]bundledomain.BundleRecommendationStatus{bundledomain.StatusPending, bundledomain.StatusViewed}).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bundledomain.ErrNotFound
	}
	return nil
}

package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Defaults for MatchOptions. Amounts are in the reporting currency.
const (
	DefaultMinSavings         = 100.0
	DefaultMinMatchPercentage = 40.0
	DefaultMaxResults         = 10
)

// MatchOptions tunes a bundle-matching run. Zero values take the defaults.
type MatchOptions struct {
	MinSavings         float64 `form:"min_savings"`
	MinMatchPercentage float64 `form:"min_match_percentage"`
	MaxResults         int     `form:"max_results"`
}

// WithDefaults fills unset options.
func (o MatchOptions) WithDefaults() MatchOptions {
	if o.MinSavings == 0 {
		o.MinSavings = DefaultMinSavings
	}
	if o.MinMatchPercentage == 0 {
		o.MinMatchPercentage = DefaultMinMatchPercentage
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// IsDefault reports whether the options equal the defaults; only default
// runs are cached.
func (o MatchOptions) IsDefault() bool {
	return o == MatchOptions{
		MinSavings:         DefaultMinSavings,
		MinMatchPercentage: DefaultMinMatchPercentage,
		MaxResults:         DefaultMaxResults,
	}
}

// MatchResult carries ranked candidates plus an explicit success flag: an
// empty list with OK=true means "nothing worth recommending", while OK=false
// means the data could not be loaded and the feature degraded.
type MatchResult struct {
	Matches []BundleMatch `json:"matches"`
	OK      bool          `json:"ok"`
}

// Service is the bundle-matching surface.
type Service interface {
	// FindMatches runs the matcher for one user. It never returns an error:
	// load failures degrade to an empty result with OK=false.
	FindMatches(ctx context.Context, userID snowflake.ID, opts MatchOptions) MatchResult
	// ShouldShowBundleRecommendations gates the feature: below two active
	// subscriptions no bundle can pass the minimum-match rule.
	ShouldShowBundleRecommendations(ctx context.Context, userID snowflake.ID) bool
	// RefreshForUser recomputes matches with default options and replaces
	// the user's pending bundle recommendations.
	RefreshForUser(ctx context.Context, userID snowflake.ID) error
	ListRecommendations(ctx context.Context, userID snowflake.ID) ([]BundleRecommendation, error)
	MarkClicked(ctx context.Context, userID, recommendationID snowflake.ID) error
	UpdateStatus(ctx context.Context, userID, recommendationID snowflake.ID, status BundleRecommendationStatus) error
}

var (
	ErrInvalidUser        = errors.New("invalid_user")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrNotFound           = errors.New("bundle_recommendation_not_found")
	ErrCatalogUnavailable = errors.New("bundle_catalog_unavailable")
)

// Package domain contains optimization recommendation records and the
// rule table driving the usage-based generator.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RecommendationType classifies what the user is being asked to do.
type RecommendationType string

const (
	TypeDowngrade RecommendationType = "downgrade"
	TypeCancel    RecommendationType = "cancel"
	TypeUpgrade   RecommendationType = "upgrade"
	TypeBundle    RecommendationType = "bundle"
)

// RecommendationStatus tracks a persisted recommendation's lifecycle. The
// engine creates rows as pending; accept/dismiss transitions are driven by
// user action and expiry by the sweep job.
type RecommendationStatus string

const (
	StatusPending   RecommendationStatus = "pending"
	StatusAccepted  RecommendationStatus = "accepted"
	StatusDismissed RecommendationStatus = "dismissed"
	StatusExpired   RecommendationStatus = "expired"
)

// ExpiryHorizon is how long a pending recommendation stays actionable.
const ExpiryHorizon = 30 * 24 * time.Hour

// OptimizationRecommendation is a persisted usage-based recommendation.
type OptimizationRecommendation struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID `gorm:"not null;index" json:"user_id"`

	SubscriptionID *snowflake.ID `gorm:"index" json:"subscription_id,omitempty"`

	Type        RecommendationType `gorm:"type:text;not null" json:"type"`
	Title       string             `gorm:"type:text;not null" json:"title"`
	Description string             `gorm:"type:text;not null" json:"description"`

	CurrentCost     float64 `gorm:"not null" json:"current_cost"`
	OptimizedCost   float64 `gorm:"not null" json:"optimized_cost"`
	MonthlySavings  float64 `gorm:"not null" json:"monthly_savings"`
	AnnualSavings   float64 `gorm:"not null" json:"annual_savings"`
	ConfidenceScore float64 `gorm:"not null" json:"confidence_score"`

	Details datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`

	Status    RecommendationStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`
	ExpiresAt *time.Time           `gorm:"" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (OptimizationRecommendation) TableName() string { return "optimization_recommendations" }

// DowngradeRule is a service-specific under-utilization rule. Rules are
// injected reference data so thresholds can change without a redeploy.
type DowngradeRule struct {
	ServiceName    string  `json:"service_name"`
	ThresholdHours float64 `json:"threshold_hours"`
	MinConfidence  float64 `json:"min_confidence"`
	MaxConfidence  float64 `json:"max_confidence"`
	FreeTierName   string  `json:"free_tier_name"`
	AdsPerHour     float64 `json:"ads_per_hour"`
}

// DefaultDowngradeRules returns the built-in rule set. Spotify is the one
// service with a meaningful free tier today; more rules slot in without code
// changes.
func DefaultDowngradeRules() []DowngradeRule {
	return []DowngradeRule{
		{
			ServiceName:    "Spotify",
			ThresholdHours: 10,
			MinConfidence:  0.50,
			MaxConfidence:  0.95,
			FreeTierName:   "Spotify Free",
			AdsPerHour:     2,
		},
	}
}

// SavingsSummary aggregates savings for dashboard figures: potential savings
// from open recommendations plus savings already realized through applied
// optimizations.
type SavingsSummary struct {
	MonthlySavings float64 `json:"monthly_savings"`
	AnnualSavings  float64 `json:"annual_savings"`
	Count          int     `json:"count"`

	RealizedMonthlySavings float64 `json:"realized_monthly_savings"`
	RealizedAnnualSavings  float64 `json:"realized_annual_savings"`
}

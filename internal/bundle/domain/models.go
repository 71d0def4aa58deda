// Package domain contains the telecom bundle catalog, bundle-match
// candidates and persisted bundle recommendations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TelecomBundle is one catalog entry: a provider plan that folds several OTT
// subscriptions into one price. Catalog rows are read-only reference data
// from the matcher's perspective.
type TelecomBundle struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	Provider string       `gorm:"type:text;not null" json:"provider"`
	PlanName string       `gorm:"type:text;not null" json:"plan_name"`
	PlanType string       `gorm:"type:text" json:"plan_type"`

	MonthlyPrice float64 `gorm:"not null" json:"monthly_price"`

	IncludedServices datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"included_services"`
	ServiceCount     int                         `gorm:"not null" json:"service_count"`
	PlanDetails      datatypes.JSONMap           `gorm:"type:jsonb" json:"plan_details,omitempty"`

	DataAllowance *string `gorm:"type:text" json:"data_allowance,omitempty"`

	// ValueScore is assigned upstream when the catalog is curated; the
	// matcher only reads it.
	ValueScore float64 `gorm:"not null;default:0" json:"value_score"`
	IsActive   bool    `gorm:"not null;default:true;index" json:"is_active"`
	Notes      *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (TelecomBundle) TableName() string { return "telecom_bundles" }

// MatchType classifies a bundle candidate relative to the user's current
// spend and coverage.
type MatchType string

const (
	MatchTypeBundle  MatchType = "bundle"
	MatchTypeUpgrade MatchType = "upgrade"
	MatchTypeSwitch  MatchType = "switch"
)

// BundleMatch is an ephemeral candidate produced by the matcher. The caller
// persists accepted candidates as BundleRecommendation rows.
type BundleMatch struct {
	BundleID snowflake.ID `json:"bundle_id"`
	Provider string       `json:"provider"`
	PlanName string       `json:"plan_name"`

	MatchedSubscriptionIDs []snowflake.ID `json:"matched_subscription_ids"`
	MatchedServiceNames    []string       `json:"matched_service_names"`

	CurrentMonthlyCost float64 `json:"current_monthly_cost"`
	BundleMonthlyCost  float64 `json:"bundle_monthly_cost"`
	MonthlySavings     float64 `json:"monthly_savings"`
	AnnualSavings      float64 `json:"annual_savings"`
	MatchPercentage    float64 `json:"match_percentage"`
	ConfidenceScore    float64 `json:"confidence_score"`

	Reasoning          string    `json:"reasoning"`
	RecommendationType MatchType `json:"recommendation_type"`
}

// BundleRecommendationStatus tracks a surfaced bundle recommendation.
type BundleRecommendationStatus string

const (
	StatusPending   BundleRecommendationStatus = "pending"
	StatusViewed    BundleRecommendationStatus = "viewed"
	StatusAccepted  BundleRecommendationStatus = "accepted"
	StatusDismissed BundleRecommendationStatus = "dismissed"
)

// BundleRecommendation is the persisted form of a BundleMatch, with a status
// lifecycle and click tracking.
type BundleRecommendation struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID   snowflake.ID `gorm:"not null;index" json:"user_id"`
	BundleID snowflake.ID `gorm:"not null;index" json:"bundle_id"`

	MatchedSubscriptionIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"matched_subscription_ids"`

	CurrentMonthlyCost float64 `gorm:"not null" json:"current_monthly_cost"`
	BundleMonthlyCost  float64 `gorm:"not null" json:"bundle_monthly_cost"`
	MonthlySavings     float64 `gorm:"not null" json:"monthly_savings"`
	AnnualSavings      float64 `gorm:"not null" json:"annual_savings"`
	MatchPercentage    float64 `gorm:"not null" json:"match_percentage"`
	ConfidenceScore    float64 `gorm:"not null" json:"confidence_score"`

	Reasoning          string    `gorm:"type:text;not null" json:"reasoning"`
	RecommendationType MatchType `gorm:"type:text;not null" json:"recommendation_type"`

	Status    BundleRecommendationStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`
	ClickedAt *time.Time                 `gorm:"" json:"clicked_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (BundleRecommendation) TableName() string { return "bundle_recommendations" }

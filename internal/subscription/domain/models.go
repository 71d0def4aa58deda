// Package domain contains subscription records and the contracts the
// optimization engine reads them through.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
)

// BillingCycle enumerates supported billing periods. Free-text variants from
// email-detected subscriptions are stored as-is under CycleCustom and
// normalized by pricing.MonthlyCost.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CycleCustom    BillingCycle = "custom"
)

// SubscriptionStatus tracks a subscription's lifecycle.
type SubscriptionStatus string

const (
	StatusActive                SubscriptionStatus = "active"
	StatusPaused                SubscriptionStatus = "paused"
	StatusCancellationInitiated SubscriptionStatus = "cancellation_initiated"
	StatusCancelled             SubscriptionStatus = "cancelled"
	StatusExpired               SubscriptionStatus = "expired"
)

// Optimization metadata keys stored in the JSONB column.
const (
	OptimizationKeyType           = "type"
	OptimizationKeyPreviousCost   = "previous_cost"
	OptimizationKeyMonthlySavings = "monthly_savings"
	OptimizationKeyOptimizedAt    = "optimized_at"
)

// Subscription is one user's recurring payment obligation. Cost and currency
// are stored normalized to the reporting currency; the user-entered amount
// is preserved separately for display. Rows are soft-deleted so realized
// savings history survives deletion.
type Subscription struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID `gorm:"not null;index" json:"user_id"`

	ServiceName       *string `gorm:"type:text" json:"service_name,omitempty"`
	CustomServiceName *string `gorm:"type:text" json:"custom_service_name,omitempty"`

	Cost     float64          `gorm:"not null" json:"cost"`
	Currency pricing.Currency `gorm:"type:text;not null;default:'INR'" json:"currency"`

	OriginalAmount   *float64 `gorm:"" json:"original_amount,omitempty"`
	OriginalCurrency *string  `gorm:"type:text" json:"original_currency,omitempty"`

	BillingCycle     BillingCycle `gorm:"type:text;not null;default:'monthly'" json:"billing_cycle"`
	CustomCycleLabel *string      `gorm:"type:text" json:"custom_cycle_label,omitempty"`
	BillingAnchor    *time.Time   `gorm:"" json:"billing_anchor,omitempty"`
	NextBillingAt    *time.Time   `gorm:"" json:"next_billing_at,omitempty"`

	Status SubscriptionStatus `gorm:"type:text;not null;default:'active';index" json:"status"`

	Optimization datatypes.JSONMap `gorm:"type:jsonb" json:"optimization,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// DisplayName returns the resolved service name when known, falling back to
// the user-typed custom name.
func (s *Subscription) DisplayName() string {
	if s.ServiceName != nil && *s.ServiceName != "" {
		return *s.ServiceName
	}
	if s.CustomServiceName != nil {
		return *s.CustomServiceName
	}
	return ""
}

// MonthlyCost normalizes the subscription cost to a monthly figure. Custom
// cycles carry their free-text label ("28 days") through to the normalizer.
func (s *Subscription) MonthlyCost() float64 {
	cycle := string(s.BillingCycle)
	if s.BillingCycle == CycleCustom && s.CustomCycleLabel != nil {
		cycle = *s.CustomCycleLabel
	}
	return pricing.MonthlyCost(s.Cost, cycle)
}

// IsActive reports whether the subscription participates in optimization.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

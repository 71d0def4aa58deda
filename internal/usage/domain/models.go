// Package domain contains usage signal records for subscriptions.
package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ServiceUsage is one observed usage window for a subscription. The engine
// only reads these rows; the tracking collaborator (Gmail scan, desktop
// tracker) writes them.
type ServiceUsage struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID `gorm:"not null;index" json:"user_id"`
	SubscriptionID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_usage_period,priority:1" json:"subscription_id"`

	UsageHours  float64   `gorm:"not null" json:"usage_hours"`
	PeriodStart time.Time `gorm:"not null;uniqueIndex:ux_usage_period,priority:2" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null;uniqueIndex:ux_usage_period,priority:3" json:"period_end"`

	LastSyncedAt *time.Time `gorm:"" json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (ServiceUsage) TableName() string { return "service_usage" }

// MonthlyHours extrapolates the observed window to a full month:
// hours × (30 / daysInPeriod). Negative hours are treated as zero and the
// period length is floored at one day, so a malformed record degrades to a
// harmless signal instead of poisoning the run.
func (u *ServiceUsage) MonthlyHours() float64 {
	hours := u.UsageHours
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 0
	}

	days := u.PeriodEnd.Sub(u.PeriodStart).Hours() / 24
	if days < 1 {
		days = 1
	}
	return hours * (30.0 / days)
}

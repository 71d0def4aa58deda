package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// MarkOptimizedRequest records that the user applied an optimization to a
// subscription.
type MarkOptimizedRequest struct {
	UserID         snowflake.ID
	SubscriptionID snowflake.ID
	Type           string
	NewCost        *float64
	MonthlySavings float64
}

// Service is the subscription surface the optimization engine depends on.
type Service interface {
	ListActive(ctx context.Context, userID snowflake.ID) ([]Subscription, error)
	CountActive(ctx context.Context, userID snowflake.ID) (int64, error)
	MarkOptimized(ctx context.Context, req MarkOptimizedRequest) error
	InitiateCancellation(ctx context.Context, userID, subscriptionID snowflake.ID) error
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrNotFound            = errors.New("subscription_not_found")
	ErrNotActive           = errors.New("subscription_not_active")
)

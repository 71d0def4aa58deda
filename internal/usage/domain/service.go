package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// RecordRequest upserts an observed usage window for a subscription.
type RecordRequest struct {
	UserID         snowflake.ID
	SubscriptionID snowflake.ID
	UsageHours     float64
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// Service is the usage surface the engine and the tracking collaborator use.
type Service interface {
	Record(ctx context.Context, req RecordRequest) (*ServiceUsage, error)
	LatestBySubscription(ctx context.Context, userID, subscriptionID snowflake.ID) (*ServiceUsage, error)
	LatestForUser(ctx context.Context, userID snowflake.ID) (map[snowflake.ID]*ServiceUsage, error)
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrInvalidPeriod       = errors.New("invalid_period")
)

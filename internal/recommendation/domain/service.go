package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service manages persisted usage-based recommendations for a user.
type Service interface {
	// Refresh invalidates the user's stale pending recommendations,
	// regenerates from current subscriptions and usage, and returns the new
	// set.
	Refresh(ctx context.Context, userID snowflake.ID) ([]OptimizationRecommendation, error)
	List(ctx context.Context, userID snowflake.ID) ([]OptimizationRecommendation, error)
	UpdateStatus(ctx context.Context, userID, recommendationID snowflake.ID, status RecommendationStatus) error
	SavingsSummary(ctx context.Context, userID snowflake.ID) (SavingsSummary, error)
	// ExpireStale flips pending rows past their horizon to expired across all
	// users; the sweep job drives this.
	ExpireStale(ctx context.Context) (int64, error)
}

var (
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrNotFound         = errors.New("recommendation_not_found")
	ErrAlreadyFinalized = errors.New("recommendation_already_finalized")
)

package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/repository"
)

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	subrepo repository.Repository[subscriptiondomain.Subscription]
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		subrepo: repository.ProvideStore[subscriptiondomain.Subscription](p.DB),
	}
}

func (s *Service) ListActive(ctx context.Context, userID snowflake.ID) ([]subscriptiondomain.Subscription, error) {
	if userID == 0 {
		return nil, subscriptiondomain.ErrInvalidUser
	}

	rows, err := s.subrepo.Find(ctx, &subscriptiondomain.Subscription{
		UserID: userID,
		Status: subscriptiondomain.StatusActive,
	}, repository.OrderBy("created_at ASC"))
	if err != nil {
		return nil, err
	}

	subscriptions := make([]subscriptiondomain.Subscription, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		subscriptions = append(subscriptions, *row)
	}
	return subscriptions, nil
}

func (s *Service) CountActive(ctx context.Context, userID snowflake.ID) (int64, error) {
	if userID == 0 {
		return 0, subscriptiondomain.ErrInvalidUser
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("user_id = ? AND status = ?", userID, subscriptiondomain.StatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkOptimized stores the applied optimization in the subscription's
// metadata and, for downgrades, the reduced cost. The update is scoped to the
// owning user so a row can never be flipped cross-user.
func (s *Service) MarkOptimized(ctx context.Context, req subscriptiondomain.MarkOptimizedRequest) error {
	if req.UserID == 0 {
		return subscriptiondomain.ErrInvalidUser
	}
	if req.SubscriptionID == 0 {
		return subscriptiondomain.ErrInvalidSubscription
	}

	existing, err := s.subrepo.FindOne(ctx, &subscriptiondomain.Subscription{
		ID:     req.SubscriptionID,
		UserID: req.UserID,
	})
	if err != nil {
		return err
	}
	if existing == nil {
		return subscriptiondomain.ErrNotFound
	}
	if !existing.IsActive() {
		return subscriptiondomain.ErrNotActive
	}

	metadata := datatypes.JSONMap{
		subscriptiondomain.OptimizationKeyType:           req.Type,
		subscriptiondomain.OptimizationKeyPreviousCost:   existing.Cost,
		subscriptiondomain.OptimizationKeyMonthlySavings: req.MonthlySavings,
		subscriptiondomain.OptimizationKeyOptimizedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	values := map[string]any{
		"optimization": metadata,
		"updated_at":   time.Now().UTC(),
	}
	if req.NewCost != nil {
		values["cost"] = *req.NewCost
	}

	affected, err := s.subrepo.Updates(ctx, &subscriptiondomain.Subscription{
		ID:     req.SubscriptionID,
		UserID: req.UserID,
	}, values)
	if err != nil {
		return err
	}
	if affected == 0 {
		return subscriptiondomain.ErrNotFound
	}
	return nil
}

// InitiateCancellation moves an active subscription to
// cancellation_initiated with a user-scoped conditional update.
func (s *Service) InitiateCancellation(ctx context.Context, userID, subscriptionID snowflake.ID) error {
	if userID == 0 {
		return subscriptiondomain.ErrInvalidUser
	}
	if subscriptionID == 0 {
		return subscriptiondomain.ErrInvalidSubscription
	}

	result := s.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("id = ? AND user_id = ? AND status = ?", subscriptionID, userID, subscriptiondomain.StatusActive).
		Updates(map[string]any{
			"status":     subscriptiondomain.StatusCancellationInitiated,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return subscriptiondomain.ErrNotFound
	}
	return nil
}

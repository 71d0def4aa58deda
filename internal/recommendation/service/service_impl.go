package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/repository"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Generator *Generator
	SubSvc    subscriptiondomain.Service
	UsageSvc  usagedomain.Service
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	generator *Generator
	subSvc    subscriptiondomain.Service
	usageSvc  usagedomain.Service
	recrepo   repository.Repository[recdomain.OptimizationRecommendation]
}

func NewService(p ServiceParam) recdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("recommendation.service"),

		genID:     p.GenID,
		generator: p.Generator,
		subSvc:    p.SubSvc,
		usageSvc:  p.UsageSvc,
		recrepo:   repository.ProvideStore[recdomain.OptimizationRecommendation](p.DB),
	}
}

// Refresh supersedes the user's pending recommendations and persists a fresh
// set generated from current subscriptions and usage. Runs are debounced
// upstream, so at most one refresh per user executes at a time.
func (s *Service) Refresh(ctx context.Context, userID snowflake.ID) ([]recdomain.OptimizationRecommendation, error) {
	if userID == 0 {
		return nil, recdomain.ErrInvalidUser
	}

	subs, err := s.subSvc.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	usageBySub, err := s.usageSvc.LatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := s.generator.ForAll(subs, usageBySub)

	now := time.Now().UTC()
	expiresAt := now.Add(recdomain.ExpiryHorizon)

	records := make([]*recdomain.OptimizationRecommendation, 0, len(candidates))
	for i := range candidates {
		rec := candidates[i]
		rec.ID = s.genID.Generate()
		rec.UserID = userID
		rec.Status = recdomain.StatusPending
		rec.ExpiresAt = &expiresAt
		rec.CreatedAt = now
		rec.UpdatedAt = now
		records = append(records, &rec)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recdomain.OptimizationRecommendation{}).
			Where("user_id = ? AND status = ?", userID, recdomain.StatusPending).
			Updates(map[string]any{
				"status":     recdomain.StatusExpired,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(records).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recommendations refreshed",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(records)),
	)

	result := make([]recdomain.OptimizationRecommendation, 0, len(records))
	for _, record := range records {
		result = append(result, *record)
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]recdomain.OptimizationRecommendation, error) {
	if userID == 0 {
		return nil, recdomain.ErrInvalidUser
	}

	rows, err := s.recrepo.Find(ctx, &recdomain.OptimizationRecommendation{
		UserID: userID,
		Status: recdomain.StatusPending,
	}, repository.OrderBy("annual_savings DESC"))
	if err != nil {
		return nil, err
	}

	recs := make([]recdomain.OptimizationRecommendation, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		recs = append(recs, *row)
	}
	return recs, nil
}

// UpdateStatus applies a user-driven accept/dismiss transition. The update
// is conditional on (id, user, pending) so finalized rows and other users'
// rows are untouchable.
func (s *Service) UpdateStatus(ctx context.Context, userID, recommendationID snowflake.ID, status recdomain.RecommendationStatus) error {
	if userID == 0 {
		return recdomain.ErrInvalidUser
	}
	if recommendationID == 0 {
		return recdomain.ErrInvalidID
	}
	if status != recdomain.StatusAccepted && status != recdomain.StatusDismissed {
		return recdomain.ErrInvalidStatus
	}

	result := s.db.WithContext(ctx).
		Model(&recdomain.OptimizationRecommendation{}).
		Where("id = ? AND user_id = ? AND status = ?", recommendationID, userID, recdomain.StatusPending).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := s.recrepo.FindOne(ctx, &recdomain.OptimizationRecommendation{
			ID:     recommendationID,
			UserID: userID,
		})
		if err != nil {
			return err
		}
		if existing == nil {
			return recdomain.ErrNotFound
		}
		return recdomain.ErrAlreadyFinalized
	}
	return nil
}

// SavingsSummary reports potential savings from open recommendations plus
// savings already realized through applied optimizations. Soft-deleted
// subscriptions still count toward realized savings.
func (s *Service) SavingsSummary(ctx context.Context, userID snowflake.ID) (recdomain.SavingsSummary, error) {
	if userID == 0 {
		return recdomain.SavingsSummary{}, recdomain.ErrInvalidUser
	}

	recs, err := s.List(ctx, userID)
	if err != nil {
		return recdomain.SavingsSummary{}, err
	}
	summary := TotalSavings(recs)

	var subs []subscriptiondomain.Subscription
	if err := s.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Find(&subs).Error; err != nil {
		return recdomain.SavingsSummary{}, err
	}
	for _, sub := range subs {
		raw, ok := sub.Optimization[subscriptiondomain.OptimizationKeyMonthlySavings]
		if !ok {
			continue
		}
		if monthly, ok := raw.(float64); ok {
			summary.RealizedMonthlySavings += monthly
		}
	}
	summary.RealizedAnnualSavings = summary.RealizedMonthlySavings * 12

	return summary, nil
}

// ExpireStale flips pending rows whose horizon has passed. Driven by the
// nightly sweep.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&recdomain.OptimizationRecommendation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", recdomain.StatusPending, now).
		Updates(map[string]any{
			"status":     recdomain.StatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

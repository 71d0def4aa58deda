package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/repository"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	usagerepo repository.Repository[usagedomain.ServiceUsage]
}

func NewService(p ServiceParam) usagedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("usage.service"),

		genID:     p.GenID,
		usagerepo: repository.ProvideStore[usagedomain.ServiceUsage](p.DB),
	}
}

// Record upserts the usage window keyed by (subscription, period). Re-synced
// windows overwrite hours instead of accumulating duplicates.
func (s *Service) Record(ctx context.Context, req usagedomain.RecordRequest) (*usagedomain.ServiceUsage, error) {
	if req.UserID == 0 {
		return nil, usagedomain.ErrInvalidUser
	}
	if req.SubscriptionID == 0 {
		return nil, usagedomain.ErrInvalidSubscription
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || !req.PeriodEnd.After(req.PeriodStart) {
		return nil, usagedomain.ErrInvalidPeriod
	}

	now := time.Now().UTC()
	record := &usagedomain.ServiceUsage{
		ID:             s.genID.Generate(),
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		UsageHours:     req.UsageHours,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		LastSyncedAt:   &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "subscription_id"},
			{Name: "period_start"},
			{Name: "period_end"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"usage_hours", "last_synced_at", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) LatestBySubscription(ctx context.Context, userID, subscriptionID snowflake.ID) (*usagedomain.ServiceUsage, error) {
	if userID == 0 {
		return nil, usagedomain.ErrInvalidUser
	}
	if subscriptionID == 0 {
		return nil, usagedomain.ErrInvalidSubscription
	}

	return s.usagerepo.FindOne(ctx, &usagedomain.ServiceUsage{
		UserID:         userID,
		SubscriptionID: subscriptionID,
	}, repository.OrderBy("period_end DESC"))
}

// LatestForUser returns the most recent usage window per subscription for
// one user, keyed by subscription ID.
func (s *Service) LatestForUser(ctx context.Context, userID snowflake.ID) (map[snowflake.ID]*usagedomain.ServiceUsage, error) {
	if userID == 0 {
		return nil, usagedomain.ErrInvalidUser
	}

	rows, err := s.usagerepo.Find(ctx, &usagedomain.ServiceUsage{UserID: userID},
		repository.OrderBy("period_end DESC"))
	if err != nil {
		return nil, err
	}

	latest := make(map[snowflake.ID]*usagedomain.ServiceUsage, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if _, seen := latest[row.SubscriptionID]; !seen {
			latest[row.SubscriptionID] = row
		}
	}
	return latest, nil
}

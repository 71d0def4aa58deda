// Package expiry runs the scheduled sweep that invalidates recommendations
// past their 30-day horizon.
package expiry

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/metrics"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
)

const sweepTimeout = 2 * time.Minute

type Sweeper struct {
	log    *zap.Logger
	recSvc recdomain.Service
}

func NewSweeper(log *zap.Logger, recSvc recdomain.Service) *Sweeper {
	return &Sweeper{
		log:    log.Named("recommendation.expiry"),
		recSvc: recSvc,
	}
}

// RunOnce expires stale pending recommendations and logs the count.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.recSvc.ExpireStale(ctx)
	metrics.Engine().RecordSweep(count, err)
	if err != nil {
		s.log.Warn("expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.log.Info("expired stale recommendations", zap.Int64("count", count))
	}
}

var Module = fx.Module("recommendation.expiry",
	fx.Provide(NewSweeper),
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, sweeper *Sweeper) error {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.ExpirySchedule, sweeper.RunOnce); err != nil {
			return err
		}

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				scheduler.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				stopped := scheduler.Stop()
				select {
				case <-stopped.Done():
				case <-ctx.Done():
				}
				return nil
			},
		})
		return nil
	}),
)
